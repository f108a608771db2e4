// Command neeklo is the operator CLI for the configurator data: it runs the
// quiz, estimator and search against a catalog and manages catalog files.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/search"
	"neeklo-backend/internal/shared/telemetry"
)

type rootOptions struct {
	catalogPath string
	corpusPath  string
	lenient     bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "neeklo",
		Short:         "Operate the neeklo configurator data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				telemetry.SetLevel("debug")
			} else {
				telemetry.SetLevel("warn")
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "catalog YAML file (default: embedded)")
	root.PersistentFlags().StringVar(&opts.corpusPath, "corpus", os.Getenv("SEARCH_CORPUS_PATH"), "search corpus YAML file (default: embedded)")
	root.PersistentFlags().BoolVar(&opts.lenient, "lenient", false, "treat unparseable prices as 0 instead of failing")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRecommendCmd(),
		newEstimateCmd(opts),
		newSearchCmd(opts),
		newCatalogCmd(opts),
		newLeadsCmd(),
	)
	return root
}

func (o *rootOptions) mode() catalog.Mode {
	if o.lenient {
		return catalog.ModeLenient
	}
	return catalog.ModeStrict
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogPath == "" {
		return catalog.Default(o.mode())
	}
	c, err := catalog.LoadFile(o.catalogPath, o.mode())
	if err != nil {
		return nil, err
	}
	telemetry.L().Debug("catalog.loaded", zap.String("path", o.catalogPath), zap.Int("products", len(c.Products())))
	return c, nil
}

func (o *rootOptions) loadIndex() (*search.Index, error) {
	if o.corpusPath == "" {
		return search.Default()
	}
	return search.LoadFile(o.corpusPath)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.L().Error("command failed", zap.Error(err))
		telemetry.Sync()
		os.Exit(1)
	}
	telemetry.Sync()
}
