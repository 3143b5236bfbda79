package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ease is the difficulty a user declared for a task.
type Ease int

const (
	Easy      Ease = 1
	Medium    Ease = 2
	Difficult Ease = 3
)

func (e Ease) Valid() bool {
	return e >= Easy && e <= Difficult
}

func (e Ease) String() string {
	switch e {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Difficult:
		return "difficult"
	}
	return strconv.Itoa(int(e))
}

// ParseEase accepts either the numeric value or the name ("easy", "medium",
// "difficult"/"hard").
func ParseEase(s string) (Ease, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "easy":
		return Easy, nil
	case "2", "medium":
		return Medium, nil
	case "3", "difficult", "hard":
		return Difficult, nil
	}
	return 0, &ValidationError{Field: "ease", Value: s, Err: fmt.Errorf("want easy, medium or difficult")}
}

// Priority is the urgency a user declared for a task. Now is the highest value.
type Priority int

const (
	NonUrgent  Priority = 1
	SemiUrgent Priority = 2
	Urgent     Priority = 3
	Now        Priority = 4
)

func (p Priority) String() string {
	switch p {
	case NonUrgent:
		return "non-urgent"
	case SemiUrgent:
		return "semi-urgent"
	case Urgent:
		return "urgent"
	case Now:
		return "now"
	}
	return strconv.Itoa(int(p))
}

// ParsePriority accepts the numeric value or the name.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-")) {
	case "1", "non-urgent", "nonurgent":
		return NonUrgent, nil
	case "2", "semi-urgent", "semiurgent":
		return SemiUrgent, nil
	case "3", "urgent":
		return Urgent, nil
	case "4", "now":
		return Now, nil
	}
	return 0, &ValidationError{Field: "priority", Value: s, Err: fmt.Errorf("want non-urgent, semi-urgent, urgent or now")}
}

// Task is one unit of work a user intends to do on Date.
type Task struct {
	ID          string
	Owner       string
	Title       string
	Description string
	Date        time.Time
	Duration    int // hours
	Ease        Ease
	Priority    Priority
}

// Hours returns the task duration as a time.Duration.
func (t Task) Hours() time.Duration {
	return time.Duration(t.Duration) * time.Hour
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
