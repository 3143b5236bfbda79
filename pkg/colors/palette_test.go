package colors

import (
	"testing"

	"github.com/harrisonrobin/dosely/pkg/model"
)

func TestPalette(t *testing.T) {
	p := Default()
	if p.ColorID(model.LabelHard) != Tomato || p.ColorID(model.LabelEasy) != Sage {
		t.Errorf("unexpected default palette %v", p)
	}
	if p.ColorID("unknown") != Graphite {
		t.Errorf("expected fallback color for unknown label")
	}

	p, err := FromConfig(map[string]string{"medium": "6"})
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if p.ColorID(model.LabelMedium) != "6" || p.ColorID(model.LabelHard) != Tomato {
		t.Errorf("override not applied: %v", p)
	}

	if _, err := FromConfig(map[string]string{"urgent": "3"}); err == nil {
		t.Error("expected unknown label to be rejected")
	}
	if _, err := FromConfig(map[string]string{"easy": "12"}); err == nil {
		t.Error("expected out-of-range color to be rejected")
	}
}
