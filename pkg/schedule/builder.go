// Package schedule lays a user's tasks for today out on a timeline and labels
// each slot with the difficulty it can bear under the chosen medication.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/medication"
	"github.com/harrisonrobin/dosely/pkg/model"
)

// TaskStore returns the tasks an owner has dated on day.
type TaskStore interface {
	FindTasks(ctx context.Context, owner string, day time.Time) ([]model.Task, error)
}

// MedicationStore resolves a profile by name, wrapping model.ErrNotFound when absent.
type MedicationStore interface {
	FindMedication(ctx context.Context, name string) (model.MedicationProfile, error)
}

// Builder turns a medication profile and today's tasks into an ordered schedule.
type Builder struct {
	tasks TaskStore
	meds  MedicationStore
}

func NewBuilder(tasks TaskStore, meds MedicationStore) *Builder {
	return &Builder{tasks: tasks, meds: meds}
}

// Build returns one event per task the owner has dated today. The order of the
// result is bucket order, not chronological order.
func (b *Builder) Build(ctx context.Context, medicationName, owner string, today time.Time) ([]model.ScheduledEvent, error) {
	profile, err := b.meds.FindMedication(ctx, medicationName)
	if err != nil {
		return nil, fmt.Errorf("medication %q: %w", medicationName, err)
	}
	if problems := medication.CheckOrdering(profile); len(problems) > 0 {
		log.Warn().Str("medication", profile.Name).Strs("problems", problems).Msg("medication phases out of order")
	}

	tasks, err := b.tasks.FindTasks(ctx, owner, today)
	if err != nil {
		return nil, fmt.Errorf("tasks for %q: %w", owner, err)
	}

	var todays []model.Task
	for _, t := range tasks {
		if t.Owner != owner || !model.SameDay(today, t.Date) {
			continue
		}
		if err := checkTask(t); err != nil {
			return nil, err
		}
		todays = append(todays, t)
	}

	events := Lay(DayStart(today), profile, Partition(todays))
	log.Debug().
		Str("medication", profile.Name).
		Str("owner", owner).
		Str("day", model.DayKey(today)).
		Int("events", len(events)).
		Msg("schedule built")
	return events, nil
}

// Buckets is a partition of tasks in processing order.
type Buckets [4][]model.Task

// Partition splits tasks into priority_now, hard, medium and easy buckets. A
// task with priority Now lands only in the first bucket, ordered by ascending
// ease; the other buckets keep input order.
func Partition(tasks []model.Task) Buckets {
	var b Buckets
	for _, t := range tasks {
		switch {
		case t.Priority == model.Now:
			b[model.BucketNow] = append(b[model.BucketNow], t)
		case t.Ease == model.Difficult:
			b[model.BucketHard] = append(b[model.BucketHard], t)
		case t.Ease == model.Medium:
			b[model.BucketMedium] = append(b[model.BucketMedium], t)
		case t.Ease == model.Easy:
			b[model.BucketEasy] = append(b[model.BucketEasy], t)
		}
	}
	now := b[model.BucketNow]
	sort.SliceStable(now, func(i, j int) bool { return now[i].Ease < now[j].Ease })
	return b
}

// Lay places buckets back to back on a single clock starting at anchor.
func Lay(anchor time.Time, p model.MedicationProfile, buckets Buckets) []model.ScheduledEvent {
	w := Windows(anchor, p)
	clock := anchor

	var events []model.ScheduledEvent
	for i, bucket := range buckets {
		kind := model.Bucket(i)
		for _, t := range bucket {
			start := clock
			clock = clock.Add(t.Hours())
			events = append(events, model.ScheduledEvent{
				TaskID:      t.ID,
				Title:       t.Title,
				Description: t.Description,
				Start:       start,
				End:         clock,
				Ease:        EffectiveEase(kind, start, w),
				Bucket:      kind,
			})
		}
	}
	return events
}

func checkTask(t model.Task) error {
	if t.Duration <= 0 {
		return &model.ValidationError{Field: "duration", Value: strconv.Itoa(t.Duration), Err: fmt.Errorf("task %q must last at least one hour", t.Title)}
	}
	if !t.Ease.Valid() {
		return &model.ValidationError{Field: "ease", Value: t.Ease.String(), Err: fmt.Errorf("task %q", t.Title)}
	}
	return nil
}
