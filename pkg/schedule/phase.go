package schedule

import (
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

// DayStartHour is the fixed local hour every schedule starts at.
const DayStartHour = 9

// DayStart returns 09:00 on today's date in today's location.
func DayStart(today time.Time) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, DayStartHour, 0, 0, 0, today.Location())
}

// PhaseWindows are a profile's offsets made absolute against a day start.
type PhaseWindows struct {
	Anchor      time.Time
	RampUpEnd   time.Time
	PeakEnd     time.Time
	MediumStart time.Time
	MediumEnd   time.Time
	EasyStart   time.Time
	EasyEnd     time.Time
}

// Windows computes the absolute phase boundaries of p relative to anchor.
func Windows(anchor time.Time, p model.MedicationProfile) PhaseWindows {
	return PhaseWindows{
		Anchor:      anchor,
		RampUpEnd:   anchor.Add(p.RampUp),
		PeakEnd:     anchor.Add(p.PeakEnd),
		MediumStart: anchor.Add(p.PostPeakMediumStart),
		MediumEnd:   anchor.Add(p.PostPeakMediumEnd),
		EasyStart:   anchor.Add(p.PostPeakEasyStart),
		EasyEnd:     anchor.Add(p.PostPeakEasyEnd),
	}
}

// EffectiveEase labels an event by the bucket it came from and where its
// start falls relative to the phase windows. The medium window does not
// participate in labeling.
func EffectiveEase(b model.Bucket, start time.Time, w PhaseWindows) model.EaseLabel {
	switch b {
	case model.BucketNow, model.BucketHard:
		return model.LabelHard
	case model.BucketMedium:
		if start.Before(w.PeakEnd) {
			return model.LabelHard
		}
		return model.LabelMedium
	case model.BucketEasy:
		if start.Before(w.EasyStart) {
			return model.LabelMedium
		}
		return model.LabelEasy
	}
	return model.LabelHard
}
