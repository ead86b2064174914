package models

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldMap holds the labeled registry fields scraped from one vessel page.
// Keys keep the position of their first insertion; a later Set for the same
// key replaces the value in place.
type FieldMap struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewFieldMap returns an empty FieldMap
func NewFieldMap() FieldMap {
	return FieldMap{m: orderedmap.New[string, string]()}
}

// Set stores value under name, overwriting any earlier value
func (f FieldMap) Set(name, value string) {
	f.m.Set(name, value)
}

// Get returns the value stored under name
func (f FieldMap) Get(name string) (string, bool) {
	if f.m == nil {
		return "", false
	}
	return f.m.Get(name)
}

// Len returns the number of fields
func (f FieldMap) Len() int {
	if f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns the field names in insertion order
func (f FieldMap) Keys() []string {
	if f.m == nil {
		return nil
	}
	keys := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every field in insertion order
func (f FieldMap) Each(fn func(name, value string)) {
	if f.m == nil {
		return
	}
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// MarshalJSON keeps the field order in the encoded object
func (f FieldMap) MarshalJSON() ([]byte, error) {
	if f.m == nil {
		return []byte("{}"), nil
	}
	return f.m.MarshalJSON()
}

// OutcomeKind classifies the result of scraping one URL
type OutcomeKind int

const (
	// OutcomeScraped means the details panel loaded and fields were extracted
	OutcomeScraped OutcomeKind = iota
	// OutcomeNotFound means the record never exposed a details link
	OutcomeNotFound
	// OutcomeLoadFailed means the details link was clicked but the registry data never rendered
	OutcomeLoadFailed
	// OutcomeFailed covers every other error
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeScraped:
		return "scraped"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeLoadFailed:
		return "load_failed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing a single registry URL
type Outcome struct {
	URL           string
	Kind          OutcomeKind
	Fields        FieldMap // only set when Kind is OutcomeScraped
	Err           error
	ConsoleErrors []string // browser console errors captured on the page, if any
	Elapsed       time.Duration
}

// IsFailure reports whether the URL belongs in the failed list.
// Missing records are skipped, not failed.
func (o Outcome) IsFailure() bool {
	return o.Kind == OutcomeLoadFailed || o.Kind == OutcomeFailed
}
