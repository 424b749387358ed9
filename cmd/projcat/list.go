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

func newListCmd() *cobra.Command {
	var (
		sortFlag string
		limit    int
		asJSON   bool
		showLOC  bool
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects from the catalog",
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
			records, err := svc.List(cmd.Context(), types.ParseSortKey(sortFlag), limit)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			printTable(records, showLOC)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "recent", "sort key: recent|size|name|type|loc")
	cmd.Flags().IntVar(&limit, "limit", 100, "max rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")
	cmd.Flags().BoolVar(&showLOC, "show-loc", false, "include the LOC column")
	cmd.Flags().StringVar(&dbPath, "db", "", "override catalog path")
	return cmd
}

func printTable(records []types.ProjectRecord, showLOC bool) {
	for _, r := range records {
		projectType := "-"
		if r.Type != nil {
			projectType = *r.Type
		}
		var size, locCount int64
		if r.SizeBytes != nil {
			size = *r.SizeBytes
		}
		if r.LOC != nil {
			locCount = *r.LOC
		}
		if showLOC {
			fmt.Printf("%-24s  %-9s  %10d  %8d  %s\n",
				truncate(r.Name, 24), projectType, size, locCount, r.Path)
		} else {
			fmt.Printf("%-24s  %-9s  %10d  %s\n",
				truncate(r.Name, 24), projectType, size, r.Path)
		}
	}
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
