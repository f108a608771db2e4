package search

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"neeklo-backend/internal/shared/metrics"
)

//go:embed data/corpus.yaml
var defaultCorpus []byte

// ErrInvalidCorpus is returned for corpus files that fail validation.
var ErrInvalidCorpus = errors.New("invalid search corpus")

// Index ranks a fixed corpus. It is immutable and safe for concurrent use.
type Index struct {
	records     []Record
	haystacks   []string
	suggestions []string
}

type corpusFile struct {
	Suggestions []string `yaml:"suggestions"`
	Records     []Record `yaml:"records"`
}

// NewIndex builds an index over records. IDs must be unique and non-empty.
func NewIndex(records []Record, suggestions []string) (*Index, error) {
	seen := make(map[string]bool, len(records))
	var errs []error
	for i, r := range records {
		switch {
		case strings.TrimSpace(r.ID) == "":
			errs = append(errs, fmt.Errorf("record %d: id is required", i))
		case seen[r.ID]:
			errs = append(errs, fmt.Errorf("record %q: duplicate id", r.ID))
		}
		seen[r.ID] = true
		if strings.TrimSpace(r.Href) == "" {
			errs = append(errs, fmt.Errorf("record %q: href is required", r.ID))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, errors.Join(errs...))
	}
	idx := &Index{
		records:     append([]Record(nil), records...),
		haystacks:   make([]string, len(records)),
		suggestions: append([]string(nil), suggestions...),
	}
	for i, r := range idx.records {
		idx.haystacks[i] = Haystack(r)
	}
	return idx, nil
}

// Load decodes a YAML corpus.
func Load(data []byte) (*Index, error) {
	var f corpusFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
	}
	return NewIndex(f.Records, f.Suggestions)
}

// Default loads the corpus embedded in the binary.
func Default() (*Index, error) {
	return Load(defaultCorpus)
}

// LoadFile loads a corpus from path, or the embedded corpus when path is empty.
func LoadFile(path string) (*Index, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return Load(data)
}

// Search returns records with a positive score, best first. Equal scores keep corpus order.
// A blank query returns an empty list.
func (idx *Index) Search(query string) []Hit {
	hits := []Hit{}
	if strings.TrimSpace(query) == "" {
		return hits
	}
	metrics.IncSearchQuery()
	q := strings.ToLower(query)
	for i, r := range idx.records {
		if s := scoreLower(r, q, idx.haystacks[i]); s > 0 {
			hits = append(hits, Hit{Record: r, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

// Suggestions are the quick chips shown for an empty query.
func (idx *Index) Suggestions() []string {
	return append([]string{}, idx.suggestions...)
}

// Records returns the corpus in order.
func (idx *Index) Records() []Record {
	return append([]Record(nil), idx.records...)
}
