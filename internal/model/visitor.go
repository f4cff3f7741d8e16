package model

import (
	"fmt"
	"strings"
	"time"
)

// Status tells whether a visitor is on the premises.
type Status string

// Visitor statuses.
const (
	StatusIn  Status = "In"
	StatusOut Status = "Out"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return s == StatusIn || s == StatusOut
}

// ParseStatus converts user input into a Status. An empty value yields the
// default status.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusIn, nil
	}
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("status must be %q or %q", StatusIn, StatusOut)
	}
	return st, nil
}

// Visitor is a single check-in/check-out entry.
type Visitor struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Purpose   string     `json:"purpose"`
	Host      string     `json:"host"`
	CheckIn   *time.Time `json:"checkIn,omitempty"`
	CheckOut  *time.Time `json:"checkOut,omitempty"`
	Status    Status     `json:"status"`
	HasPhoto  bool       `json:"hasPhoto"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Normalize trims the free-text fields and fills in the default status.
func (v *Visitor) Normalize() {
	v.Name = strings.TrimSpace(v.Name)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Purpose = strings.TrimSpace(v.Purpose)
	v.Host = strings.TrimSpace(v.Host)
	if v.Status == "" {
		v.Status = StatusIn
	}
}

// TimeUpdate replaces an optional timestamp. A nil Value clears it.
type TimeUpdate struct {
	Value *time.Time
}

// VisitorPatch is a partial update of a visitor. Nil fields are left
// untouched.
type VisitorPatch struct {
	Name     *string
	Phone    *string
	Purpose  *string
	Host     *string
	CheckIn  *TimeUpdate
	CheckOut *TimeUpdate
	Status   *Status
}

// Normalize trims the text fields present in the patch.
func (p *VisitorPatch) Normalize() {
	for _, f := range []*string{p.Name, p.Phone, p.Purpose, p.Host} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Validate checks the invariants a patch must keep.
func (p *VisitorPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("status must be %q or %q", StatusIn, StatusOut)
	}
	return nil
}

// timeLayouts are tried in order by ParseTime. The zone-less layouts match
// what an HTML datetime-local input submits.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses a check-in or check-out value. Values without a zone are
// interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q", s)
}
