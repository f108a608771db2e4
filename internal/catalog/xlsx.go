package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PackagesSheet is the preferred sheet name for spreadsheet imports. The first sheet is used when absent.
const PackagesSheet = "Packages"

var xlsxColumns = []string{"product", "product_name", "package", "name", "description", "price", "features", "popular"}

// ImportXLSX reads a price-list spreadsheet with one package per row. Columns are matched by
// header name: product, product_name, package, name, description, price, features
// (separated by ";") and popular. The result carries packages only and is meant to be
// merged over a full catalog with Merge.
func ImportXLSX(r io.Reader, mode Mode) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := PackagesSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("spreadsheet has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s: %w: expected a header and at least one row", sheet, ErrInvalidCatalog)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"product", "package", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet %s: %w: missing column %q", sheet, ErrInvalidCatalog, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []productRecord
	index := make(map[string]int)
	for n, row := range rows[1:] {
		slug := cell(row, "product")
		if slug == "" {
			continue
		}
		i, ok := index[slug]
		if !ok {
			records = append(records, productRecord{Slug: slug, Name: cell(row, "product_name")})
			i = len(records) - 1
			index[slug] = i
		}
		pkgID := cell(row, "package")
		if pkgID == "" {
			return nil, fmt.Errorf("sheet %s row %d: %w: empty package id", sheet, n+2, ErrInvalidCatalog)
		}
		records[i].Packages = append(records[i].Packages, packageRecord{
			ID:          pkgID,
			Name:        cell(row, "name"),
			Description: cell(row, "description"),
			Price:       cell(row, "price"),
			Features:    splitFeatures(cell(row, "features")),
			Popular:     truthy(cell(row, "popular")),
		})
	}

	products, err := fromRecords(records, mode)
	if err != nil {
		return nil, err
	}
	c := New(products)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ExportXLSX writes the catalog packages in the layout ImportXLSX reads.
func ExportXLSX(c *Catalog, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PackagesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(xlsxColumns))
	for i, col := range xlsxColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(PackagesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := 2
	for _, p := range c.Products() {
		for _, pkg := range p.Packages {
			popular := ""
			if pkg.Popular {
				popular = "yes"
			}
			values := []any{p.Slug, p.Name, pkg.ID, pkg.Name, pkg.Description, pkg.PriceLabel, strings.Join(pkg.Features, "; "), popular}
			axis, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(PackagesSheet, axis, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func splitFeatures(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "x", "yes", "true", "да", "+":
		return true
	default:
		return false
	}
}
