package search

// Record is one searchable page or section of the site.
type Record struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Excerpt  string   `json:"excerpt" yaml:"excerpt"`
	Href     string   `json:"href" yaml:"href"`
	Category string   `json:"category" yaml:"category"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
}

// Hit is a record scored against a query.
type Hit struct {
	Record
	Score int `json:"score"`
}
