package quiz

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/decisions.yaml
var defaultDecisions []byte

// ContactPath is the site route recommendations link to.
const ContactPath = "/contact"

// Key addresses one decision table rule.
type Key struct {
	What string
	Why  string
}

// Table is the decision table behind Recommend. It is immutable after Load.
type Table struct {
	fallback Result
	defaults map[string]Result
	rules    map[Key]Result
	steps    map[Step][]Choice
	order    []string
}

type tableRecord struct {
	Steps struct {
		What []Choice `yaml:"what"`
		Why  []Choice `yaml:"why"`
		When []Choice `yaml:"when"`
	} `yaml:"steps"`
	Fallback Result       `yaml:"fallback"`
	Rules    []ruleRecord `yaml:"rules"`
}

type ruleRecord struct {
	What    string            `yaml:"what"`
	Default Result            `yaml:"default"`
	Why     map[string]Result `yaml:"why"`
}

var defaultTable = mustLoad(defaultDecisions)

// DefaultTable returns the table embedded in the binary.
func DefaultTable() *Table {
	return defaultTable
}

// Recommend evaluates answers against the embedded decision table.
func Recommend(a Answers) Result {
	return defaultTable.Recommend(a)
}

// LoadTable decodes a YAML decision table.
func LoadTable(data []byte) (*Table, error) {
	var raw tableRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode decision table: %w", err)
	}

	t := &Table{
		fallback: raw.Fallback,
		defaults: make(map[string]Result),
		rules:    make(map[Key]Result),
		steps: map[Step][]Choice{
			StepWhat: raw.Steps.What,
			StepWhy:  raw.Steps.Why,
			StepWhen: raw.Steps.When,
		},
	}
	for _, r := range raw.Rules {
		what := normalize(r.What)
		if _, dup := t.defaults[what]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for what=%q", ErrInvalidTable, what)
		}
		t.defaults[what] = r.Default
		t.order = append(t.order, what)
		for why, res := range r.Why {
			t.rules[Key{What: what, Why: normalize(why)}] = res
		}
	}
	return t, nil
}

func mustLoad(data []byte) *Table {
	t, err := LoadTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Recommend resolves answers in fixed order: the exact (what, why) rule, the default for
// a known what, then the global fallback. what=unknown goes straight to the fallback.
// The result is never empty.
func (t *Table) Recommend(a Answers) Result {
	what := normalize(a.What)
	why := normalize(a.Why)

	res := t.fallback
	if what != UnknownWhat {
		if r, ok := t.rules[Key{What: what, Why: why}]; ok {
			res = r
		} else if r, ok := t.defaults[what]; ok {
			res = r
		}
	}
	res.ContactLink = contactLink(res.Slug, normalize(a.When))
	return res
}

// Options lists the choices offered at a step. The result step has none.
func (t *Table) Options(step Step) []Choice {
	return t.steps[step]
}

// Rules returns a zero-why key per default in table order, then every (what, why) key sorted.
func (t *Table) Rules() []Key {
	keys := make([]Key, 0, len(t.rules)+len(t.order))
	for _, what := range t.order {
		keys = append(keys, Key{What: what})
	}
	exact := make([]Key, 0, len(t.rules))
	for k := range t.rules {
		exact = append(exact, k)
	}
	sort.Slice(exact, func(i, j int) bool {
		if exact[i].What != exact[j].What {
			return exact[i].What < exact[j].What
		}
		return exact[i].Why < exact[j].Why
	})
	return append(keys, exact...)
}

// ProductLookup is the slice of the catalog the table is checked against.
type ProductLookup interface {
	Has(slug string) bool
}

// Validate checks totality: a complete fallback, a default for every known what choice,
// and that every result points at an existing product.
func (t *Table) Validate(products ProductLookup) error {
	var errs []error
	check := func(where string, r Result) {
		if r.Slug == "" || r.Title == "" {
			errs = append(errs, fmt.Errorf("%s: result needs slug and title", where))
			return
		}
		if products != nil && !products.Has(r.Slug) {
			errs = append(errs, fmt.Errorf("%s: unknown product %q", where, r.Slug))
		}
	}

	check("fallback", t.fallback)
	for _, c := range t.steps[StepWhat] {
		what := normalize(c.ID)
		if what == UnknownWhat {
			continue
		}
		if _, ok := t.defaults[what]; !ok {
			errs = append(errs, fmt.Errorf("what=%s: no default rule", what))
		}
	}
	for what, r := range t.defaults {
		check("what="+what, r)
	}
	for k, r := range t.rules {
		check(fmt.Sprintf("what=%s why=%s", k.What, k.Why), r)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTable, errors.Join(errs...))
}

func contactLink(slug, when string) string {
	q := url.Values{}
	q.Set("product", slug)
	if when != "" {
		q.Set("when", when)
	}
	return ContactPath + "?" + q.Encode()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
