package model

import (
	"strings"
	"time"
)

// Layouts used to present timestamps.
const (
	DisplayTimeLayout = "02 Jan 2006 15:04"
	InputTimeLayout   = "2006-01-02T15:04:05"
)

// FormatTime renders an optional timestamp for display, or an em dash when
// it is unset.
func FormatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.In(loc).Format(DisplayTimeLayout)
}

// SearchFields returns the lowercased values the list search looks at.
func (v *Visitor) SearchFields(loc *time.Location) []string {
	return []string{
		strings.ToLower(v.Name),
		strings.ToLower(v.Phone),
		strings.ToLower(v.Purpose),
		strings.ToLower(v.Host),
		strings.ToLower(string(v.Status)),
		strings.ToLower(FormatTime(v.CheckIn, loc)),
	}
}

// Matches reports whether query is a case-insensitive substring of any
// searchable field. An empty query matches everything.
func (v *Visitor) Matches(query string, loc *time.Location) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range v.SearchFields(loc) {
		if strings.Contains(f, q) {
			return true
		}
	}
	return false
}

// FilterVisitors returns the visitors matching query, preserving order.
func FilterVisitors(visitors []Visitor, query string, loc *time.Location) []Visitor {
	out := make([]Visitor, 0, len(visitors))
	for i := range visitors {
		if visitors[i].Matches(query, loc) {
			out = append(out, visitors[i])
		}
	}
	return out
}
