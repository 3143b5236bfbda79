package medication

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/dosely/pkg/model"
)

// Entry is the on-disk form of a profile; offsets are "H:MM:SS" strings.
type Entry struct {
	Name                string `yaml:"name" json:"name"`
	Type                string `yaml:"type,omitempty" json:"type,omitempty"`
	Treats              string `yaml:"treats,omitempty" json:"treats,omitempty"`
	RampUp              string `yaml:"ramp_up" json:"ramp_up"`
	HalfLife            string `yaml:"half_life" json:"half_life"`
	PeakPeriod          string `yaml:"peak_period" json:"peak_period"`
	PeakEnd             string `yaml:"peak_end" json:"peak_end"`
	PostPeakMediumStart string `yaml:"post_peak_medium_start" json:"post_peak_medium_start"`
	PostPeakMediumEnd   string `yaml:"post_peak_medium_end" json:"post_peak_medium_end"`
	PostPeakEasyStart   string `yaml:"post_peak_easy_start" json:"post_peak_easy_start"`
	PostPeakEasyEnd     string `yaml:"post_peak_easy_end" json:"post_peak_easy_end"`
}

type catalogFile struct {
	Medications []Entry `yaml:"medications"`
}

// Profile converts e, failing with a *model.ValidationError on any malformed offset.
func (e Entry) Profile() (model.MedicationProfile, error) {
	p := model.MedicationProfile{Name: e.Name, Type: e.Type, Treats: e.Treats}
	if p.Type == "" {
		p.Type = model.DefaultMedicationType
	}
	if p.Treats == "" {
		p.Treats = model.DefaultTreats
	}

	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"ramp_up", e.RampUp, &p.RampUp},
		{"half_life", e.HalfLife, &p.HalfLife},
		{"peak_period", e.PeakPeriod, &p.PeakPeriod},
		{"peak_end", e.PeakEnd, &p.PeakEnd},
		{"post_peak_medium_start", e.PostPeakMediumStart, &p.PostPeakMediumStart},
		{"post_peak_medium_end", e.PostPeakMediumEnd, &p.PostPeakMediumEnd},
		{"post_peak_easy_start", e.PostPeakEasyStart, &p.PostPeakEasyStart},
		{"post_peak_easy_end", e.PostPeakEasyEnd, &p.PostPeakEasyEnd},
	}
	for _, f := range fields {
		d, err := ParseOffset(f.name, f.raw)
		if err != nil {
			return model.MedicationProfile{}, fmt.Errorf("medication %q: %w", e.Name, err)
		}
		*f.dst = d
	}
	if err := Validate(p); err != nil {
		return model.MedicationProfile{}, err
	}
	return p, nil
}

// EntryFor is the inverse of Entry.Profile.
func EntryFor(p model.MedicationProfile) Entry {
	return Entry{
		Name:                p.Name,
		Type:                p.Type,
		Treats:              p.Treats,
		RampUp:              FormatOffset(p.RampUp),
		HalfLife:            FormatOffset(p.HalfLife),
		PeakPeriod:          FormatOffset(p.PeakPeriod),
		PeakEnd:             FormatOffset(p.PeakEnd),
		PostPeakMediumStart: FormatOffset(p.PostPeakMediumStart),
		PostPeakMediumEnd:   FormatOffset(p.PostPeakMediumEnd),
		PostPeakEasyStart:   FormatOffset(p.PostPeakEasyStart),
		PostPeakEasyEnd:     FormatOffset(p.PostPeakEasyEnd),
	}
}

// ReadCatalog decodes a YAML catalog of medications.
func ReadCatalog(r io.Reader) ([]model.MedicationProfile, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode medication catalog: %w", err)
	}
	out := make([]model.MedicationProfile, 0, len(f.Medications))
	seen := make(map[string]bool)
	for _, e := range f.Medications {
		if seen[e.Name] {
			return nil, &model.ValidationError{Field: "name", Value: e.Name, Err: fmt.Errorf("duplicate medication")}
		}
		seen[e.Name] = true
		p, err := e.Profile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadCatalog reads the catalog file at path.
func LoadCatalog(path string) ([]model.MedicationProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCatalog(f)
}

// DefaultCatalog is the built-in profile set seeded into an empty store.
func DefaultCatalog() []model.MedicationProfile {
	return []model.MedicationProfile{{
		Name:                "CONCERTA",
		Type:                model.DefaultMedicationType,
		Treats:              model.DefaultTreats,
		RampUp:              4*time.Hour + 30*time.Minute,
		HalfLife:            3*time.Hour + 30*time.Minute,
		PeakPeriod:          7 * time.Hour,
		PeakEnd:             7 * time.Hour,
		PostPeakMediumStart: 9 * time.Hour,
		PostPeakMediumEnd:   11 * time.Hour,
		PostPeakEasyStart:   11 * time.Hour,
		PostPeakEasyEnd:     12 * time.Hour,
	}}
}
