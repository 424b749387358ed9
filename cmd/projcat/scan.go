package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/service"
)

func newScanCmd() *cobra.Command {
	var (
		roots  []string
		dryRun bool
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan roots and populate the catalog",
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
			count, err := svc.Scan(cmd.Context(), roots, dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Scanned %d project(s)\n", count)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&roots, "root", nil, "root to scan (repeatable; defaults to config roots)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "detect and log without writing to the catalog")
	cmd.Flags().StringVar(&dbPath, "db", "", "override catalog path")
	return cmd
}
