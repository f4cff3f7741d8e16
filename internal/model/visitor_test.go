package model

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", StatusIn, false},
		{"In", StatusIn, false},
		{" Out ", StatusOut, false},
		{"in", "", true},
		{"Gone", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisitorNormalize(t *testing.T) {
	v := Visitor{Name: "  Alice ", Phone: " 0412345678", Purpose: "Meeting ", Host: "\tBob"}
	v.Normalize()

	if v.Name != "Alice" || v.Phone != "0412345678" || v.Purpose != "Meeting" || v.Host != "Bob" {
		t.Errorf("fields not trimmed: %+v", v)
	}
	if v.Status != StatusIn {
		t.Errorf("expected default status In, got %q", v.Status)
	}
}

func TestVisitorPatchValidate(t *testing.T) {
	blank := "   "
	if err := (&VisitorPatch{Name: &blank}).Validate(); err == nil {
		t.Error("expected error for blank name")
	}

	bad := Status("Away")
	if err := (&VisitorPatch{Status: &bad}).Validate(); err == nil {
		t.Error("expected error for unknown status")
	}

	name := "Bob"
	out := StatusOut
	if err := (&VisitorPatch{Name: &name, Status: &out}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-08-01T09:30:00Z", time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-08-01T09:30", time.Date(2025, 8, 1, 9, 30, 0, 0, loc)},
		{"2025-08-01 09:30:15", time.Date(2025, 8, 1, 9, 30, 15, 0, loc)},
		{"2025-08-01", time.Date(2025, 8, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		got, err := ParseTime(tt.in, loc)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTime("yesterday", loc); err == nil {
		t.Error("expected error for unparseable value")
	}
}
