package taskwarrior

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"

	// NowTag marks a task as needing to be done first.
	NowTag = "now"
)

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.Format(taskwarriorTimeLayout) + `"`), nil
}

// Task is a Taskwarrior export record. Ease and Est are UDAs
// (uda.ease.type=string, uda.est.type=duration).
type Task struct {
	UUID        string      `json:"uuid"`
	Description string      `json:"description"`
	Due         *CustomTime `json:"due,omitempty"`
	Scheduled   *CustomTime `json:"scheduled,omitempty"`
	Status      string      `json:"status"`
	Project     string      `json:"project,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Annotations []struct {
		Description string      `json:"description"`
		Entry       *CustomTime `json:"entry"`
	} `json:"annotations,omitempty"`
	Ease string `json:"ease,omitempty"`
	Est  string `json:"est,omitempty"` // ISO 8601, e.g. PT1H30M
}

// Day returns the date the task is planned for: scheduled, else due.
func (t Task) Day() (time.Time, bool) {
	if t.Scheduled != nil && !t.Scheduled.IsZero() {
		return t.Scheduled.Time, true
	}
	if t.Due != nil && !t.Due.IsZero() {
		return t.Due.Time, true
	}
	return time.Time{}, false
}

func (t Task) hasTag(tag string) bool {
	for _, tg := range t.Tags {
		if strings.EqualFold(tg, tag) {
			return true
		}
	}
	return false
}

// ToModel maps a Taskwarrior task onto owner's model.Task in loc. Missing
// UDAs fall back to one hour and easy.
func (t Task) ToModel(owner string, loc *time.Location) (model.Task, error) {
	day, ok := t.Day()
	if !ok {
		return model.Task{}, &model.ValidationError{Field: "scheduled", Value: t.UUID, Err: fmt.Errorf("task has neither scheduled nor due date")}
	}

	hours := 1
	if t.Est != "" {
		est, err := ParseDuration(t.Est)
		if err != nil {
			return model.Task{}, &model.ValidationError{Field: "est", Value: t.Est, Err: err}
		}
		hours = int(math.Ceil(est.Hours()))
	}

	ease := model.Easy
	if t.Ease != "" {
		e, err := model.ParseEase(t.Ease)
		if err != nil {
			return model.Task{}, err
		}
		ease = e
	}

	var prio model.Priority
	switch {
	case t.hasTag(NowTag):
		prio = model.Now
	case t.Priority == "H":
		prio = model.Urgent
	case t.Priority == "M":
		prio = model.SemiUrgent
	default:
		prio = model.NonUrgent
	}

	var desc strings.Builder
	if t.Project != "" {
		desc.WriteString(fmt.Sprintf("Project: %s\n", t.Project))
	}
	for _, ann := range t.Annotations {
		desc.WriteString(fmt.Sprintf("‣ %s\n", ann.Description))
	}

	return model.Task{
		ID:          t.UUID,
		Owner:       owner,
		Title:       t.Description,
		Description: strings.TrimSpace(desc.String()),
		Date:        day.In(loc),
		Duration:    hours,
		Ease:        ease,
		Priority:    prio,
	}, nil
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration parses ISO 8601 duration format (PT1H30M, P1DT2H) from Taskwarrior JSON export.
// Days count as 24 hours and weeks as 7 days.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}

	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		value, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || value > int64(math.MaxInt64/unit) || total > math.MaxInt64-time.Duration(value)*unit {
			return 0, fmt.Errorf("ISO 8601 duration out of range: %s", s)
		}
		total += time.Duration(value) * unit
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: %s", s)
	}
	return total, nil
}
