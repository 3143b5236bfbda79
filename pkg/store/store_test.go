package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/dosely/pkg/medication"
	"github.com/harrisonrobin/dosely/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMedicationRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	concerta := medication.DefaultCatalog()[0]
	require.NoError(t, s.UpsertMedication(ctx, concerta))

	got, err := s.FindMedication(ctx, "CONCERTA")
	require.NoError(t, err)
	assert.Equal(t, concerta, got)

	concerta.PeakEnd = 6 * time.Hour
	require.NoError(t, s.UpsertMedication(ctx, concerta))
	got, err = s.FindMedication(ctx, "CONCERTA")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, got.PeakEnd)

	all, err := s.ListMedications(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindMedicationNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.FindMedication(context.Background(), "RITALIN")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFindMedicationMalformedOffset(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO medications (name, ramp_up, half_life, peak_period, peak_end,
		post_peak_medium_start, post_peak_medium_end, post_peak_easy_start, post_peak_easy_end)
		VALUES ('BROKEN', '04:30:00', '03:30:00', '07:00:00', 'seven',
		'09:00:00', '11:00:00', '11:00:00', '12:00:00')`)
	require.NoError(t, err)

	_, err = s.FindMedication(ctx, "BROKEN")
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "peak_end", verr.Field)
}

func TestFindTasksFiltersOwnerAndDay(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	first, err := s.AddTask(ctx, model.Task{Owner: "ana", Title: "first", Date: today, Duration: 2, Ease: model.Medium})
	require.NoError(t, err)
	_, err = s.AddTask(ctx, model.Task{Owner: "ana", Title: "later", Date: tomorrow})
	require.NoError(t, err)
	_, err = s.AddTask(ctx, model.Task{Owner: "ben", Title: "other", Date: today})
	require.NoError(t, err)
	second, err := s.AddTask(ctx, model.Task{Owner: "ana", Title: "second", Date: today, Priority: model.Now})
	require.NoError(t, err)

	tasks, err := s.FindTasks(ctx, "ana", today)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
	assert.Equal(t, 2, tasks[0].Duration)
	assert.Equal(t, model.Medium, tasks[0].Ease)
	assert.Equal(t, model.NonUrgent, tasks[0].Priority)
	assert.Equal(t, 1, tasks[1].Duration)
	assert.Equal(t, model.Easy, tasks[1].Ease)
	assert.Equal(t, model.Now, tasks[1].Priority)
	assert.True(t, model.SameDay(today, tasks[0].Date))
}

func TestAddTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	_, err := s.AddTask(ctx, model.Task{Title: "no owner", Date: today})
	assert.True(t, model.IsValidation(err))

	_, err = s.AddTask(ctx, model.Task{Owner: "ana", Title: "bad ease", Date: today, Ease: 7})
	assert.True(t, model.IsValidation(err))

	_, err = s.AddTask(ctx, model.Task{Owner: "ana", Title: "negative", Date: today, Duration: -1})
	assert.True(t, model.IsValidation(err))
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	task, err := s.AddTask(ctx, model.Task{Owner: "ana", Title: "gone", Date: today})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, task.ID))
	assert.True(t, errors.Is(s.DeleteTask(ctx, task.ID), model.ErrNotFound))
}

func TestDriverFor(t *testing.T) {
	d, src := driverFor("postgres://u:p@localhost/dosely")
	assert.Equal(t, "postgres", d)
	assert.Equal(t, "postgres://u:p@localhost/dosely", src)

	d, src = driverFor("sqlite:///tmp/dosely.db")
	assert.Equal(t, "sqlite", d)
	assert.Equal(t, "/tmp/dosely.db", src)
}
