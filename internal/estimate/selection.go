package estimate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Selection is one answer: a single value (option id or free text) or a list of option ids.
type Selection struct {
	values []string
	list   bool
}

// Single builds a single-value selection.
func Single(value string) Selection {
	return Selection{values: []string{value}}
}

// Multi builds a list selection.
func Multi(ids ...string) Selection {
	return Selection{values: append([]string(nil), ids...), list: true}
}

// Values returns the selected values in order.
func (s Selection) Values() []string {
	return s.values
}

// IsList reports whether the selection was given as a list.
func (s Selection) IsList() bool {
	return s.list
}

// Text returns the single value, or the list joined with ", ".
func (s Selection) Text() string {
	return strings.Join(s.values, ", ")
}

// Empty reports whether no non-blank value was given.
func (s Selection) Empty() bool {
	for _, v := range s.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// MarshalJSON encodes a single selection as a string and a list as an array.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.list {
		if s.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.values)
	}
	if len(s.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(s.values[0])
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (s *Selection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = Selection{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("selection list: %w", err)
		}
		*s = Multi(ids...)
		return nil
	default:
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("selection: %w", err)
		}
		*s = Single(v)
		return nil
	}
}

// AnswerSet maps question id to its single answer.
type AnswerSet map[string]Selection

// Clone returns a shallow copy safe to mutate.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
