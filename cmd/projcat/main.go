package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/projcat/internal/catalog"
	"github.com/dshills/projcat/internal/config"
	"github.com/dshills/projcat/internal/loc"
	"github.com/dshills/projcat/internal/metrics"
	"github.com/dshills/projcat/internal/scanner"
	"github.com/dshills/projcat/internal/vcs"
	"github.com/dshills/projcat/internal/walker"
)

var (
	version = "dev"

	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:     "projcat",
		Short:   "Index and browse local software projects",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			logrus.SetLevel(logrus.InfoLevel)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newScanCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newConfigCmd())

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// openStore opens the catalog at an explicit path or the default location.
func openStore(dbPath string) (*catalog.Store, error) {
	if dbPath != "" {
		return catalog.Open(config.ExpandTilde(dbPath))
	}
	return catalog.OpenDefault()
}

// collaborators wires the optional line-counting and VCS capabilities,
// sharing the scan's full ignore layering with the line counter so line
// counts never include files discovery would exclude.
func collaborators(cfg *config.Config) metrics.Collaborators {
	w := walker.New(cfg.GlobalIgnores, scanner.DefaultIgnoreFiles()...)
	return metrics.Collaborators{
		LOC: loc.NewCounter(w),
		VCS: vcs.NewReader(),
	}
}
