package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/service"
	"github.com/dshills/projcat/pkg/types"
)

func newQueryCmd() *cobra.Command {
	var (
		search    string
		sortFlag  string
		ascending bool
		page      int
		pageSize  int
		asJSON    bool
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search the catalog with sorting and pagination",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := service.New(store, cfg, collaborators(cfg))
			result, err := svc.Query(cmd.Context(), search, types.ParseSortKey(sortFlag), ascending, page, pageSize)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printTable(result.Items, false)
			fmt.Fprintf(os.Stderr, "page %d (%d of %d total)\n",
				result.Page, len(result.Items), result.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "substring match on name or path")
	cmd.Flags().StringVar(&sortFlag, "sort", "recent", "sort key: recent|size|name|type|loc")
	cmd.Flags().BoolVar(&ascending, "asc", false, "sort ascending")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "rows per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the JSON page envelope")
	cmd.Flags().StringVar(&dbPath, "db", "", "override catalog path")
	return cmd
}
