package catalog

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of the catalog: unique slugs, unique ids
// within their parent, non-negative prices and known question types. All problems
// are reported together.
func (c *Catalog) Validate() error {
	var errs []error
	slugs := make(map[string]bool)
	for _, p := range c.Products() {
		if p.Slug == "" {
			errs = append(errs, fmt.Errorf("product %q: empty slug", p.Name))
		} else if slugs[p.Slug] {
			errs = append(errs, fmt.Errorf("product %s: duplicate slug", p.Slug))
		}
		slugs[p.Slug] = true

		pkgIDs := make(map[string]bool)
		for _, pkg := range p.Packages {
			if pkg.ID == "" {
				errs = append(errs, fmt.Errorf("product %s: package with empty id", p.Slug))
			} else if pkgIDs[pkg.ID] {
				errs = append(errs, fmt.Errorf("product %s: duplicate package %s", p.Slug, pkg.ID))
			}
			pkgIDs[pkg.ID] = true
			if pkg.Price.Amount < 0 {
				errs = append(errs, fmt.Errorf("product %s package %s: negative price", p.Slug, pkg.ID))
			}
		}

		qIDs := make(map[string]bool)
		for _, q := range p.Questions {
			if q.ID == "" {
				errs = append(errs, fmt.Errorf("product %s: question with empty id", p.Slug))
			} else if qIDs[q.ID] {
				errs = append(errs, fmt.Errorf("product %s: duplicate question %s", p.Slug, q.ID))
			}
			qIDs[q.ID] = true
			if !q.Type.Known() {
				errs = append(errs, fmt.Errorf("product %s question %s: unknown type %q", p.Slug, q.ID, q.Type))
				continue
			}
			if q.Type.HasOptions() && len(q.Options) == 0 {
				errs = append(errs, fmt.Errorf("product %s question %s: %s question without options", p.Slug, q.ID, q.Type))
			}
			if !q.Type.HasOptions() && len(q.Options) > 0 {
				errs = append(errs, fmt.Errorf("product %s question %s: %s question with options", p.Slug, q.ID, q.Type))
			}
			optIDs := make(map[string]bool)
			for _, o := range q.Options {
				if o.ID == "" || optIDs[o.ID] {
					errs = append(errs, fmt.Errorf("product %s question %s: empty or duplicate option %q", p.Slug, q.ID, o.ID))
				}
				optIDs[o.ID] = true
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
}
