package model

import (
	"regexp"
	"strings"
	"time"
)

// namePattern accepts names that contain a letter followed by letters,
// spaces or .'- characters, optionally preceded by non-letter characters.
var namePattern = regexp.MustCompile(`^[^\p{L}_.-]*\p{L}[\p{L} .'-]+$`)

// Phone number length bounds, counted in digits.
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// VisitorForm is the raw input of the add and edit visitor forms.
type VisitorForm struct {
	Name     string
	Phone    string
	Purpose  string
	Host     string
	CheckIn  string
	CheckOut string
	Status   string
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the form and returns one message per failing field. An
// empty result means the form can be submitted.
func (f *VisitorForm) Validate(loc *time.Location) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case !namePattern.MatchString(name):
		errs["name"] = "Please enter a valid name"
	}

	phone := DigitsOnly(f.Phone)
	switch {
	case phone == "":
		errs["phone"] = "Phone is required"
	case len(phone) < MinPhoneDigits || len(phone) > MaxPhoneDigits:
		errs["phone"] = "Phone must be 10–15 digits"
	}

	if strings.TrimSpace(f.Purpose) == "" {
		errs["purpose"] = "Purpose is required"
	}
	if strings.TrimSpace(f.Host) == "" {
		errs["host"] = "Host is required"
	}

	if strings.TrimSpace(f.CheckIn) != "" {
		if _, err := ParseTime(f.CheckIn, loc); err != nil {
			errs["checkIn"] = "Invalid date/time"
		}
	}
	if strings.TrimSpace(f.CheckOut) != "" {
		if _, err := ParseTime(f.CheckOut, loc); err != nil {
			errs["checkOut"] = "Invalid date/time"
		}
	}

	if _, err := ParseStatus(f.Status); err != nil {
		errs["status"] = "Status must be In or Out"
	}

	return errs
}

// Visitor converts a validated form into a new visitor record.
func (f *VisitorForm) Visitor(loc *time.Location) *Visitor {
	v := &Visitor{
		Name:    f.Name,
		Phone:   DigitsOnly(f.Phone),
		Purpose: f.Purpose,
		Host:    f.Host,
	}
	v.Status, _ = ParseStatus(f.Status)
	if t, err := ParseTime(f.CheckIn, loc); err == nil {
		v.CheckIn = &t
	}
	if t, err := ParseTime(f.CheckOut, loc); err == nil {
		v.CheckOut = &t
	}
	v.Normalize()
	return v
}

// Patch converts a validated edit form into a full-field patch. Empty time
// fields clear the stored value.
func (f *VisitorForm) Patch(loc *time.Location) *VisitorPatch {
	v := f.Visitor(loc)
	return &VisitorPatch{
		Name:     &v.Name,
		Phone:    &v.Phone,
		Purpose:  &v.Purpose,
		Host:     &v.Host,
		CheckIn:  &TimeUpdate{Value: v.CheckIn},
		CheckOut: &TimeUpdate{Value: v.CheckOut},
		Status:   &v.Status,
	}
}

// FormFromVisitor fills a form with the stored values of v, formatting the
// timestamps the way a datetime-local input expects.
func FormFromVisitor(v *Visitor, loc *time.Location) VisitorForm {
	f := VisitorForm{
		Name:    v.Name,
		Phone:   v.Phone,
		Purpose: v.Purpose,
		Host:    v.Host,
		Status:  string(v.Status),
	}
	if v.CheckIn != nil {
		f.CheckIn = v.CheckIn.In(loc).Format(InputTimeLayout)
	}
	if v.CheckOut != nil {
		f.CheckOut = v.CheckOut.In(loc).Format(InputTimeLayout)
	}
	return f
}
