// Package colors maps effective ease labels onto Google Calendar event colors.
package colors

import (
	"fmt"
	"strconv"

	"github.com/harrisonrobin/dosely/pkg/model"
)

// Google Calendar event color ids used by default.
const (
	Sage   = "2"
	Banana = "5"
	Tomato = "11"
	// Graphite marks labels the palette has no entry for.
	Graphite = "8"
)

// Palette maps an ease label to a colorId.
type Palette map[model.EaseLabel]string

// Default colors easy green, medium yellow and hard red.
func Default() Palette {
	return Palette{
		model.LabelEasy:   Sage,
		model.LabelMedium: Banana,
		model.LabelHard:   Tomato,
	}
}

// FromConfig overlays the configured colors ("easy": "10", ...) on Default.
func FromConfig(overrides map[string]string) (Palette, error) {
	p := Default()
	for label, id := range overrides {
		l := model.EaseLabel(label)
		if _, ok := p[l]; !ok {
			return nil, fmt.Errorf("unknown ease label %q in color config", label)
		}
		n, err := strconv.Atoi(id)
		if err != nil || n < 1 || n > 11 {
			return nil, fmt.Errorf("color id for %q must be 1-11, got %q", label, id)
		}
		p[l] = id
	}
	return p, nil
}

// ColorID returns the colorId for label.
func (p Palette) ColorID(label model.EaseLabel) string {
	if id, ok := p[label]; ok {
		return id
	}
	return Graphite
}
