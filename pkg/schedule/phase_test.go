package schedule

import (
	"testing"
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

func TestEffectiveEase(t *testing.T) {
	w := Windows(DayStart(today), concerta())
	if !w.PeakEnd.Equal(clock(16)) {
		t.Fatalf("expected peak end 16:00, got %s", w.PeakEnd.Format("15:04"))
	}
	if !w.EasyStart.Equal(clock(20)) {
		t.Fatalf("expected easy start 20:00, got %s", w.EasyStart.Format("15:04"))
	}

	tests := []struct {
		bucket model.Bucket
		start  time.Time
		want   model.EaseLabel
	}{
		{model.BucketNow, clock(9), model.LabelHard},
		{model.BucketNow, clock(22), model.LabelHard},
		{model.BucketHard, clock(21), model.LabelHard},
		{model.BucketMedium, clock(15), model.LabelHard},
		{model.BucketMedium, clock(16), model.LabelMedium},
		{model.BucketMedium, clock(18), model.LabelMedium},
		{model.BucketEasy, clock(19), model.LabelMedium},
		{model.BucketEasy, clock(20), model.LabelEasy},
	}
	for _, tt := range tests {
		if got := EffectiveEase(tt.bucket, tt.start, w); got != tt.want {
			t.Errorf("EffectiveEase(%s, %s) = %s, want %s", tt.bucket, tt.start.Format("15:04"), got, tt.want)
		}
	}
}

func TestDayStartKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	d := DayStart(time.Date(2026, 10, 19, 23, 30, 0, 0, loc))
	if d.Location() != loc || d.Hour() != DayStartHour || d.Day() != 19 {
		t.Errorf("unexpected day start %v", d)
	}
}

func TestPartitionDoesNotDuplicate(t *testing.T) {
	b := Partition([]model.Task{
		task("a", model.Difficult, model.Now, 1),
		task("b", model.Difficult, model.Urgent, 1),
	})
	if len(b[model.BucketNow]) != 1 || len(b[model.BucketHard]) != 1 {
		t.Fatalf("unexpected buckets: %+v", b)
	}
	if b[model.BucketHard][0].ID != "b" {
		t.Errorf("expected b in hard bucket, got %s", b[model.BucketHard][0].ID)
	}
}
