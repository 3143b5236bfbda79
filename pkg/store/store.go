// Package store persists medications and tasks in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/harrisonrobin/dosely/pkg/medication"
	"github.com/harrisonrobin/dosely/pkg/model"
	"github.com/harrisonrobin/dosely/pkg/schedule"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS medications (
	name                   TEXT PRIMARY KEY,
	med_type               TEXT NOT NULL DEFAULT 'stimulant',
	treats                 TEXT NOT NULL DEFAULT 'ADD/ADHD',
	ramp_up                TEXT NOT NULL,
	half_life              TEXT NOT NULL,
	peak_period            TEXT NOT NULL,
	peak_end               TEXT NOT NULL,
	post_peak_medium_start TEXT NOT NULL,
	post_peak_medium_end   TEXT NOT NULL,
	post_peak_easy_start   TEXT NOT NULL,
	post_peak_easy_end     TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	day         TEXT NOT NULL,
	duration    INTEGER NOT NULL DEFAULT 1,
	ease        INTEGER NOT NULL DEFAULT 1,
	priority    INTEGER NOT NULL DEFAULT 1,
	created_at  BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_day ON tasks (owner, day)`,
}

// Store is the sqlx-backed task and medication store.
type Store struct {
	db *sqlx.DB

	mu   sync.Mutex
	last int64
}

var (
	_ schedule.TaskStore       = (*Store)(nil)
	_ schedule.MedicationStore = (*Store)(nil)
)

// Open connects to dsn and applies the schema. postgres:// and postgresql://
// DSNs use lib/pq; anything else is a SQLite path (an optional sqlite://
// prefix is stripped). The caller is responsible for calling Close.
func Open(dsn string) (*Store, error) {
	driver, source := driverFor(dsn)
	db, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	log.Debug().Str("driver", driver).Msg("connected to database")
	return &Store{db: db}, nil
}

func driverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	default:
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	}
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

type medicationRow struct {
	Name                string `db:"name"`
	Type                string `db:"med_type"`
	Treats              string `db:"treats"`
	RampUp              string `db:"ramp_up"`
	HalfLife            string `db:"half_life"`
	PeakPeriod          string `db:"peak_period"`
	PeakEnd             string `db:"peak_end"`
	PostPeakMediumStart string `db:"post_peak_medium_start"`
	PostPeakMediumEnd   string `db:"post_peak_medium_end"`
	PostPeakEasyStart   string `db:"post_peak_easy_start"`
	PostPeakEasyEnd     string `db:"post_peak_easy_end"`
}

func (r medicationRow) profile() (model.MedicationProfile, error) {
	return medication.Entry(r).Profile()
}

const medicationColumns = `name, med_type, treats, ramp_up, half_life, peak_period, peak_end,
	post_peak_medium_start, post_peak_medium_end, post_peak_easy_start, post_peak_easy_end`

// UpsertMedication inserts p or replaces the stored profile with the same name.
func (s *Store) UpsertMedication(ctx context.Context, p model.MedicationProfile) error {
	if err := medication.Validate(p); err != nil {
		return err
	}
	if p.Type == "" {
		p.Type = model.DefaultMedicationType
	}
	if p.Treats == "" {
		p.Treats = model.DefaultTreats
	}
	row := medicationRow(medication.EntryFor(p))
	q := `INSERT INTO medications (` + medicationColumns + `)
	VALUES (:name, :med_type, :treats, :ramp_up, :half_life, :peak_period, :peak_end,
		:post_peak_medium_start, :post_peak_medium_end, :post_peak_easy_start, :post_peak_easy_end)
	ON CONFLICT (name) DO UPDATE SET
		med_type = excluded.med_type,
		treats = excluded.treats,
		ramp_up = excluded.ramp_up,
		half_life = excluded.half_life,
		peak_period = excluded.peak_period,
		peak_end = excluded.peak_end,
		post_peak_medium_start = excluded.post_peak_medium_start,
		post_peak_medium_end = excluded.post_peak_medium_end,
		post_peak_easy_start = excluded.post_peak_easy_start,
		post_peak_easy_end = excluded.post_peak_easy_end`
	if _, err := s.db.NamedExecContext(ctx, q, row); err != nil {
		log.Error().Err(err).Str("medication", p.Name).Msg("UpsertMedication failed")
		return fmt.Errorf("upsert medication %q: %w", p.Name, err)
	}
	return nil
}

// FindMedication returns the profile stored under name. It wraps
// model.ErrNotFound when there is none and returns a *model.ValidationError
// when a stored offset does not parse.
func (s *Store) FindMedication(ctx context.Context, name string) (model.MedicationProfile, error) {
	var row medicationRow
	q := s.db.Rebind(`SELECT ` + medicationColumns + ` FROM medications WHERE name = ?`)
	if err := s.db.GetContext(ctx, &row, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MedicationProfile{}, fmt.Errorf("medication %q: %w", name, model.ErrNotFound)
		}
		log.Error().Err(err).Str("medication", name).Msg("FindMedication failed")
		return model.MedicationProfile{}, err
	}
	return row.profile()
}

// ListMedications returns every stored profile ordered by name.
func (s *Store) ListMedications(ctx context.Context) ([]model.MedicationProfile, error) {
	var rows []medicationRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+medicationColumns+` FROM medications ORDER BY name`); err != nil {
		log.Error().Err(err).Msg("ListMedications failed")
		return nil, err
	}
	out := make([]model.MedicationProfile, 0, len(rows))
	for _, r := range rows {
		p, err := r.profile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type taskRow struct {
	ID          string `db:"id"`
	Owner       string `db:"owner"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Day         string `db:"day"`
	Duration    int    `db:"duration"`
	Ease        int    `db:"ease"`
	Priority    int    `db:"priority"`
	CreatedAt   int64  `db:"created_at"`
}

// AddTask stores t and returns it with a fresh ID. Zero fields take the
// defaults: one hour, easy, non-urgent.
func (s *Store) AddTask(ctx context.Context, t model.Task) (model.Task, error) {
	if t.Owner == "" {
		return model.Task{}, &model.ValidationError{Field: "owner", Err: fmt.Errorf("task owner is required")}
	}
	if t.Date.IsZero() {
		return model.Task{}, &model.ValidationError{Field: "date", Err: fmt.Errorf("task date is required")}
	}
	if t.Duration == 0 {
		t.Duration = 1
	}
	if t.Ease == 0 {
		t.Ease = model.Easy
	}
	if t.Priority == 0 {
		t.Priority = model.NonUrgent
	}
	if t.Duration < 0 {
		return model.Task{}, &model.ValidationError{Field: "duration", Value: fmt.Sprint(t.Duration), Err: fmt.Errorf("must be positive")}
	}
	if !t.Ease.Valid() {
		return model.Task{}, &model.ValidationError{Field: "ease", Value: t.Ease.String()}
	}
	if t.Priority < model.NonUrgent || t.Priority > model.Now {
		return model.Task{}, &model.ValidationError{Field: "priority", Value: t.Priority.String()}
	}
	t.ID = uuid.NewString()

	row := taskRow{
		ID:          t.ID,
		Owner:       t.Owner,
		Title:       t.Title,
		Description: t.Description,
		Day:         model.DayKey(t.Date),
		Duration:    t.Duration,
		Ease:        int(t.Ease),
		Priority:    int(t.Priority),
		CreatedAt:   s.nextSeq(),
	}
	const q = `INSERT INTO tasks (id, owner, title, description, day, duration, ease, priority, created_at)
	VALUES (:id, :owner, :title, :description, :day, :duration, :ease, :priority, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, q, row); err != nil {
		log.Error().Err(err).Str("owner", t.Owner).Msg("AddTask failed")
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// FindTasks returns owner's tasks dated on day, in insertion order.
func (s *Store) FindTasks(ctx context.Context, owner string, day time.Time) ([]model.Task, error) {
	var rows []taskRow
	q := s.db.Rebind(`
	SELECT id, owner, title, description, day, duration, ease, priority, created_at
	  FROM tasks
	 WHERE owner = ? AND day = ?
	 ORDER BY created_at, id`)
	if err := s.db.SelectContext(ctx, &rows, q, owner, model.DayKey(day)); err != nil {
		log.Error().Err(err).Str("owner", owner).Str("day", model.DayKey(day)).Msg("FindTasks failed")
		return nil, err
	}
	out := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		date, err := time.ParseInLocation(time.DateOnly, r.Day, day.Location())
		if err != nil {
			return nil, &model.ValidationError{Field: "day", Value: r.Day, Err: err}
		}
		out = append(out, model.Task{
			ID:          r.ID,
			Owner:       r.Owner,
			Title:       r.Title,
			Description: r.Description,
			Date:        date,
			Duration:    r.Duration,
			Ease:        model.Ease(r.Ease),
			Priority:    model.Priority(r.Priority),
		})
	}
	return out, nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		log.Error().Err(err).Str("task_id", id).Msg("DeleteTask failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// nextSeq returns a strictly increasing insertion stamp.
func (s *Store) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := time.Now().UnixNano()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return n
}
