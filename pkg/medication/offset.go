package medication

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

var offsetRe = regexp.MustCompile(`^(\d+):([0-5]?\d):([0-5]?\d)$`)

// maxOffsetHours keeps H:59:59 within time.Duration.
const maxOffsetHours = math.MaxInt64/int64(time.Hour) - 1

// ParseOffset parses an "H:MM:SS" offset from dose time. Hours may exceed 23.
func ParseOffset(field, s string) (time.Duration, error) {
	m := offsetRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &model.ValidationError{Field: field, Value: s, Err: fmt.Errorf("want H:MM:SS")}
	}
	h, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || h > maxOffsetHours {
		return 0, &model.ValidationError{Field: field, Value: s, Err: fmt.Errorf("hours must be at most %d", maxOffsetHours)}
	}
	mins, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, &model.ValidationError{Field: field, Value: s, Err: err}
	}
	sec, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, &model.ValidationError{Field: field, Value: s, Err: err}
	}
	return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatOffset renders d as "HH:MM:SS".
func FormatOffset(d time.Duration) string {
	if d < 0 {
		return "-" + FormatOffset(-d)
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}

// Validate rejects profiles without a name or with negative offsets.
func Validate(p model.MedicationProfile) error {
	if p.Name == "" {
		return &model.ValidationError{Field: "name", Err: fmt.Errorf("medication name is required")}
	}
	for _, o := range offsets(p) {
		if o.d < 0 {
			return &model.ValidationError{Field: o.field, Value: FormatOffset(o.d), Err: fmt.Errorf("offset must not be negative")}
		}
	}
	return nil
}

// CheckOrdering lists violations of peak_end <= post_peak_medium_start <=
// post_peak_easy_start and of start <= end within each window.
func CheckOrdering(p model.MedicationProfile) []string {
	var problems []string
	check := func(a string, ad time.Duration, b string, bd time.Duration) {
		if ad > bd {
			problems = append(problems, fmt.Sprintf("%s (%s) after %s (%s)", a, FormatOffset(ad), b, FormatOffset(bd)))
		}
	}
	check("peak_end", p.PeakEnd, "post_peak_medium_start", p.PostPeakMediumStart)
	check("post_peak_medium_start", p.PostPeakMediumStart, "post_peak_easy_start", p.PostPeakEasyStart)
	check("post_peak_medium_start", p.PostPeakMediumStart, "post_peak_medium_end", p.PostPeakMediumEnd)
	check("post_peak_easy_start", p.PostPeakEasyStart, "post_peak_easy_end", p.PostPeakEasyEnd)
	return problems
}

type namedOffset struct {
	field string
	d     time.Duration
}

func offsets(p model.MedicationProfile) []namedOffset {
	return []namedOffset{
		{"ramp_up", p.RampUp},
		{"half_life", p.HalfLife},
		{"peak_period", p.PeakPeriod},
		{"peak_end", p.PeakEnd},
		{"post_peak_medium_start", p.PostPeakMediumStart},
		{"post_peak_medium_end", p.PostPeakMediumEnd},
		{"post_peak_easy_start", p.PostPeakEasyStart},
		{"post_peak_easy_end", p.PostPeakEasyEnd},
	}
}
