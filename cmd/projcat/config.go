package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/projcat/internal/catalog"
	"github.com/dshills/projcat/internal/config"
)

func newConfigCmd() *cobra.Command {
	var (
		printCfg bool
		dbPath   bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case printCfg:
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			case dbPath:
				store, err := catalog.OpenDefault()
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				fmt.Println(store.Path())
				return nil
			default:
				fmt.Println("Use --print or --db-path")
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&printCfg, "print", false, "print the effective config as JSON")
	cmd.Flags().BoolVar(&dbPath, "db-path", false, "print the default catalog path")
	return cmd
}
