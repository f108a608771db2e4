package catalog

// QuestionType enumerates the wizard question kinds.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMulti    QuestionType = "multi"
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
)

// Known reports whether t is one of the supported question types.
func (t QuestionType) Known() bool {
	switch t {
	case QuestionSingle, QuestionMulti, QuestionText, QuestionTextarea:
		return true
	default:
		return false
	}
}

// HasOptions reports whether answers to this type reference option ids.
func (t QuestionType) HasOptions() bool {
	return t == QuestionSingle || t == QuestionMulti
}

// Money is an integer amount in whole currency units.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Timeline is a baseline delivery time in days. MaxDays equals Days unless the
// source declared a range such as "10–14 дней".
type Timeline struct {
	Days    int `json:"days"`
	MaxDays int `json:"maxDays"`
}

// Package is one purchasable tier of a product.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceLabel  string   `json:"priceLabel"`
	Price       Money    `json:"price"`
	Features    []string `json:"features"`
	Timeline    Timeline `json:"timeline"`
	Popular     bool     `json:"popular"`
}

// Option is a selectable answer carrying optional price and time modifiers.
type Option struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	PriceModifier *float64 `json:"priceModifier,omitempty"`
	TimeModifier  *int     `json:"timeModifier,omitempty"`
}

// Question is one wizard step.
type Question struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Options  []Option     `json:"options,omitempty"`
}

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Product is a service offering with its packages and configurator questions.
type Product struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags,omitempty"`
	Packages    []Package  `json:"packages"`
	Questions   []Question `json:"questions"`
}

// Package looks up a package by id.
func (p Product) Package(id string) (Package, bool) {
	for _, pkg := range p.Packages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return Package{}, false
}

// Question looks up a question by id.
func (p Product) Question(id string) (Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// StartingPrice returns the cheapest package price, or zero for a product without packages.
func (p Product) StartingPrice() Money {
	var best Money
	for i, pkg := range p.Packages {
		if i == 0 || pkg.Price.Amount < best.Amount {
			best = pkg.Price
		}
	}
	return best
}

// Catalog is the immutable set of products loaded at boot.
type Catalog struct {
	products []Product
	bySlug   map[string]int
}

// New indexes products by slug. Later duplicates are reported by Validate, lookups return the first.
func New(products []Product) *Catalog {
	c := &Catalog{products: products, bySlug: make(map[string]int, len(products))}
	for i, p := range products {
		if _, exists := c.bySlug[p.Slug]; !exists {
			c.bySlug[p.Slug] = i
		}
	}
	return c
}

// Products returns all products in declaration order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	return c.products
}

// Product looks up a product by slug.
func (c *Catalog) Product(slug string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Has reports whether a product slug exists.
func (c *Catalog) Has(slug string) bool {
	_, ok := c.Product(slug)
	return ok
}
