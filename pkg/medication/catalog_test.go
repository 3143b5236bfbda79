package medication

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"07:00:00", 7 * time.Hour, true},
		{"4:30:00", 4*time.Hour + 30*time.Minute, true},
		{"26:00:15", 26*time.Hour + 15*time.Second, true},
		{"00:00:00", 0, true},
		{"7", 0, false},
		{"07:60:00", 0, false},
		{"-1:00:00", 0, false},
		{"", 0, false},
		{"2562046:00:00", 2562046 * time.Hour, true},
		{"2562047:00:00", 0, false},
		{"3000000:00:00", 0, false},
		{"99999999999999999999:00:00", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseOffset("peak_end", tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseOffset(%q) failed: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ParseOffset(%q): expected ValidationError, got %v", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOffset(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatOffset(t *testing.T) {
	if got := FormatOffset(4*time.Hour + 30*time.Minute); got != "04:30:00" {
		t.Errorf("expected 04:30:00, got %s", got)
	}
	if got := FormatOffset(30 * time.Hour); got != "30:00:00" {
		t.Errorf("expected 30:00:00, got %s", got)
	}
}

const catalogYAML = `
medications:
  - name: CONCERTA
    ramp_up: "04:30:00"
    half_life: "03:30:00"
    peak_period: "07:00:00"
    peak_end: "07:00:00"
    post_peak_medium_start: "09:00:00"
    post_peak_medium_end: "11:00:00"
    post_peak_easy_start: "11:00:00"
    post_peak_easy_end: "12:00:00"
  - name: ADDERALL XR
    type: stimulant
    treats: ADHD
    ramp_up: "03:00:00"
    half_life: "10:00:00"
    peak_period: "04:00:00"
    peak_end: "07:00:00"
    post_peak_medium_start: "07:00:00"
    post_peak_medium_end: "09:00:00"
    post_peak_easy_start: "09:00:00"
    post_peak_easy_end: "12:00:00"
`

func TestReadCatalog(t *testing.T) {
	profiles, err := ReadCatalog(strings.NewReader(catalogYAML))
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0] != DefaultCatalog()[0] {
		t.Errorf("expected CONCERTA to match the built-in profile, got %+v", profiles[0])
	}
	if profiles[1].Treats != "ADHD" || profiles[1].Type != "stimulant" {
		t.Errorf("unexpected metadata: %+v", profiles[1])
	}
}

func TestReadCatalogMalformed(t *testing.T) {
	bad := strings.Replace(catalogYAML, `peak_end: "07:00:00"`, `peak_end: "seven"`, 1)
	_, err := ReadCatalog(strings.NewReader(bad))
	if !model.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	dup := catalogYAML + `  - name: CONCERTA
    ramp_up: "04:30:00"
    half_life: "03:30:00"
    peak_period: "07:00:00"
    peak_end: "07:00:00"
    post_peak_medium_start: "09:00:00"
    post_peak_medium_end: "11:00:00"
    post_peak_easy_start: "11:00:00"
    post_peak_easy_end: "12:00:00"
`
	if _, err := ReadCatalog(strings.NewReader(dup)); !model.IsValidation(err) {
		t.Fatalf("expected duplicate to be rejected, got %v", err)
	}
}

func TestEntryRoundTrip(t *testing.T) {
	p := DefaultCatalog()[0]
	got, err := EntryFor(p).Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch: %+v != %+v", got, p)
	}
}

func TestValidateAndOrdering(t *testing.T) {
	p := DefaultCatalog()[0]
	if err := Validate(p); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if problems := CheckOrdering(p); len(problems) != 0 {
		t.Errorf("default profile out of order: %v", problems)
	}

	p.PeakEnd = 10 * time.Hour
	if problems := CheckOrdering(p); len(problems) != 1 {
		t.Errorf("expected one ordering problem, got %v", problems)
	}

	p.RampUp = -time.Hour
	if err := Validate(p); !model.IsValidation(err) {
		t.Errorf("expected negative offset to be rejected, got %v", err)
	}

	if err := Validate(model.MedicationProfile{}); !model.IsValidation(err) {
		t.Errorf("expected missing name to be rejected, got %v", err)
	}
}
