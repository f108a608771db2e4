package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"neeklo-backend/internal/shared/telemetry"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Mode controls how ingestion treats unparseable display prices.
type Mode int

const (
	// ModeStrict fails the load. Used in development so bad data is caught early.
	ModeStrict Mode = iota
	// ModeLenient substitutes 0 and logs a warning.
	ModeLenient
)

// ModeFor picks strict parsing for development-like environments.
func ModeFor(devLike bool) Mode {
	if devLike {
		return ModeStrict
	}
	return ModeLenient
}

type fileRecord struct {
	Products []productRecord `yaml:"products"`
}

type productRecord struct {
	Slug        string           `yaml:"slug"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Category    string           `yaml:"category"`
	Tags        []string         `yaml:"tags,omitempty"`
	Packages    []packageRecord  `yaml:"packages"`
	Questions   []questionRecord `yaml:"questions,omitempty"`
}

type packageRecord struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Features    []string `yaml:"features"`
	Popular     bool     `yaml:"popular,omitempty"`
}

type questionRecord struct {
	ID       string         `yaml:"id"`
	Title    string         `yaml:"title"`
	Type     string         `yaml:"type"`
	Required bool           `yaml:"required,omitempty"`
	Options  []optionRecord `yaml:"options,omitempty"`
}

type optionRecord struct {
	ID            string   `yaml:"id"`
	Label         string   `yaml:"label"`
	PriceModifier *float64 `yaml:"priceModifier,omitempty"`
	TimeModifier  *int     `yaml:"timeModifier,omitempty"`
}

// Default loads the catalog embedded in the binary.
func Default(mode Mode) (*Catalog, error) {
	return Load(defaultCatalog, mode)
}

// LoadFile loads a catalog from path, or the embedded default when path is empty.
func LoadFile(path string, mode Mode) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(mode)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(data, mode)
}

// Load decodes a YAML catalog, parses display prices and timelines once, and validates the result.
func Load(data []byte, mode Mode) (*Catalog, error) {
	var raw fileRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	products, err := fromRecords(raw.Products, mode)
	if err != nil {
		return nil, err
	}
	c := New(products)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode renders the catalog back into the YAML layout accepted by Load.
func Encode(c *Catalog) ([]byte, error) {
	var raw fileRecord
	for _, p := range c.Products() {
		raw.Products = append(raw.Products, toRecord(p))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func fromRecords(records []productRecord, mode Mode) ([]Product, error) {
	products := make([]Product, 0, len(records))
	for _, pr := range records {
		p := Product{
			Slug:        strings.TrimSpace(pr.Slug),
			Name:        pr.Name,
			Description: pr.Description,
			Category:    pr.Category,
			Tags:        pr.Tags,
		}
		for _, rec := range pr.Packages {
			pkg, err := parsePackage(p.Slug, rec, mode)
			if err != nil {
				return nil, err
			}
			p.Packages = append(p.Packages, pkg)
		}
		for _, qr := range pr.Questions {
			q := Question{
				ID:       strings.TrimSpace(qr.ID),
				Title:    qr.Title,
				Type:     QuestionType(strings.ToLower(strings.TrimSpace(qr.Type))),
				Required: qr.Required,
			}
			for _, opt := range qr.Options {
				q.Options = append(q.Options, Option{
					ID:            strings.TrimSpace(opt.ID),
					Label:         opt.Label,
					PriceModifier: opt.PriceModifier,
					TimeModifier:  opt.TimeModifier,
				})
			}
			p.Questions = append(p.Questions, q)
		}
		products = append(products, p)
	}
	return products, nil
}

func parsePackage(slug string, rec packageRecord, mode Mode) (Package, error) {
	price, err := ParsePrice(rec.Price)
	if err != nil {
		if !errors.Is(err, ErrUnparseable) || mode == ModeStrict {
			return Package{}, fmt.Errorf("product %s package %s price %q: %w", slug, rec.ID, rec.Price, err)
		}
		telemetry.Warn("catalog.price_unparseable", map[string]any{
			"product": slug,
			"package": rec.ID,
			"label":   rec.Price,
		})
		price = Money{Amount: 0, Currency: price.Currency}
	}
	timeline, _ := ParseTimeline(rec.Features)
	return Package{
		ID:          strings.TrimSpace(rec.ID),
		Name:        rec.Name,
		Description: rec.Description,
		PriceLabel:  rec.Price,
		Price:       price,
		Features:    rec.Features,
		Timeline:    timeline,
		Popular:     rec.Popular,
	}, nil
}

func toRecord(p Product) productRecord {
	pr := productRecord{
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Tags:        p.Tags,
	}
	for _, pkg := range p.Packages {
		pr.Packages = append(pr.Packages, packageRecord{
			ID:          pkg.ID,
			Name:        pkg.Name,
			Description: pkg.Description,
			Price:       pkg.PriceLabel,
			Features:    pkg.Features,
			Popular:     pkg.Popular,
		})
	}
	for _, q := range p.Questions {
		qr := questionRecord{ID: q.ID, Title: q.Title, Type: string(q.Type), Required: q.Required}
		for _, o := range q.Options {
			qr.Options = append(qr.Options, optionRecord{
				ID:            o.ID,
				Label:         o.Label,
				PriceModifier: o.PriceModifier,
				TimeModifier:  o.TimeModifier,
			})
		}
		pr.Questions = append(pr.Questions, qr)
	}
	return pr
}

// Merge returns a catalog where every product in overlay replaces the packages of the
// same product in base. Products unknown to base are appended. Questions always come from base
// unless base lacks the product.
func Merge(base, overlay *Catalog) *Catalog {
	out := make([]Product, 0, len(base.Products())+len(overlay.Products()))
	seen := make(map[string]bool)
	for _, p := range base.Products() {
		if o, ok := overlay.Product(p.Slug); ok {
			p.Packages = o.Packages
			if o.Name != "" {
				p.Name = o.Name
			}
		}
		seen[p.Slug] = true
		out = append(out, p)
	}
	for _, o := range overlay.Products() {
		if !seen[o.Slug] {
			seen[o.Slug] = true
			out = append(out, o)
		}
	}
	return New(out)
}
