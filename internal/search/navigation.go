package search

import "strings"

// TargetKind says how a result destination is opened.
type TargetKind string

const (
	// TargetAnchor scrolls to a section on the current page.
	TargetAnchor TargetKind = "anchor"
	// TargetRoute navigates to another page.
	TargetRoute TargetKind = "route"
)

// Target classifies href: "#section" is an anchor, anything else a route.
func Target(href string) TargetKind {
	if strings.HasPrefix(strings.TrimSpace(href), "#") {
		return TargetAnchor
	}
	return TargetRoute
}

// Cursor is the highlighted row in a result list. Movement is clamped, not wrapped.
type Cursor struct {
	index int
	count int
}

// Reset points the cursor at the first of n new results.
func (c *Cursor) Reset(n int) {
	c.index = 0
	c.count = max(n, 0)
}

// Down moves the highlight one row down, stopping at the last row.
func (c *Cursor) Down() {
	if c.index < c.count-1 {
		c.index++
	}
}

// Up moves the highlight one row up, stopping at the first row.
func (c *Cursor) Up() {
	if c.index > 0 {
		c.index--
	}
}

// Index is the highlighted row.
func (c *Cursor) Index() int {
	return c.index
}

// Selected reports the highlighted row, or false for an empty list.
func (c *Cursor) Selected() (int, bool) {
	if c.count == 0 {
		return 0, false
	}
	return c.index, true
}
