package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/quiz"
	"neeklo-backend/internal/shared/telemetry"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check, import and export catalog files",
	}
	cmd.AddCommand(newCatalogCheckCmd(opts), newCatalogImportCmd(opts), newCatalogExportCmd(opts))
	return cmd
}

func newCatalogCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the catalog and the quiz table against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			table := quiz.DefaultTable()
			if err := table.Validate(c); err != nil {
				return fmt.Errorf("quiz table: %w", err)
			}
			packages := 0
			for _, p := range c.Products() {
				packages += len(p.Packages)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d products, %d packages, %d quiz rules\n", len(c.Products()), packages, len(table.Rules()))
			return nil
		},
	}
}

func newCatalogImportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import <prices.xlsx>",
		Short: "Merge a price-list spreadsheet over the catalog and print the YAML",
		Example: `  neeklo catalog import prices.xlsx --out catalog.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			overlay, err := catalog.ImportXLSX(f, opts.mode())
			if err != nil {
				return err
			}
			merged := catalog.Merge(base, overlay)
			if err := merged.Validate(); err != nil {
				return err
			}
			data, err := catalog.Encode(merged)
			if err != nil {
				return err
			}
			telemetry.L().Info("catalog.imported",
				zap.String("source", args[0]),
				zap.Int("overlay_products", len(overlay.Products())),
				zap.Int("products", len(merged.Products())),
			)
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newCatalogExportCmd(opts *rootOptions) *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML or as an xlsx price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			if format == "" {
				format = "yaml"
				if strings.EqualFold(filepath.Ext(out), ".xlsx") {
					format = "xlsx"
				}
			}
			switch format {
			case "yaml":
				data, err := catalog.Encode(c)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), out, data)
			case "xlsx":
				if out == "" {
					return fmt.Errorf("xlsx export needs --out")
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := catalog.ExportXLSX(c, f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout for yaml when empty)")
	cmd.Flags().StringVar(&format, "format", "", "yaml or xlsx (default from --out extension)")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
