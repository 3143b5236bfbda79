package model

import (
	"encoding/json"
	"time"
)

// EaseLabel is the effective difficulty attached to a scheduled event.
type EaseLabel string

const (
	LabelEasy   EaseLabel = "easy"
	LabelMedium EaseLabel = "medium"
	LabelHard   EaseLabel = "hard"
)

// Bucket is the group a task was scheduled from.
type Bucket int

const (
	BucketNow Bucket = iota
	BucketHard
	BucketMedium
	BucketEasy
)

func (b Bucket) String() string {
	switch b {
	case BucketNow:
		return "priority_now"
	case BucketHard:
		return "hard"
	case BucketMedium:
		return "medium"
	case BucketEasy:
		return "easy"
	}
	return "unknown"
}

const clockLayout = "15:04"

// ScheduledEvent is one slot of a built schedule. It is never persisted.
type ScheduledEvent struct {
	TaskID      string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Ease        EaseLabel
	Bucket      Bucket
}

// StartClock returns the start as local "HH:MM".
func (e ScheduledEvent) StartClock() string { return e.Start.Format(clockLayout) }

// EndClock returns the end as local "HH:MM".
func (e ScheduledEvent) EndClock() string { return e.End.Format(clockLayout) }

type scheduledEventJSON struct {
	TaskID      string    `json:"task_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Ease        EaseLabel `json:"ease"`
	Bucket      string    `json:"bucket"`
}

// MarshalJSON emits start and end as time-of-day only.
func (e ScheduledEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(scheduledEventJSON{
		TaskID:      e.TaskID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.StartClock(),
		End:         e.EndClock(),
		Ease:        e.Ease,
		Bucket:      e.Bucket.String(),
	})
}
