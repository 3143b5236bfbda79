// Package orgmode reads dosely tasks from Org-mode files.
//
// A task is a TODO or NEXT headline with a SCHEDULED (or DEADLINE) date.
// Properties EASE and EFFORT carry the ease and the estimate; the :now: tag
// puts the task first in the day.
package orgmode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/model"
)

const NowTag = "now"

var (
	headlineRegex  = regexp.MustCompile(`^\*+\s+(?:(TODO|NEXT|DONE)\s+)?(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+(:[\w@:]+:))?\s*$`)
	scheduledRegex = regexp.MustCompile(`SCHEDULED:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	deadlineRegex  = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	propertyRegex  = regexp.MustCompile(`^:([A-Za-z_]+):\s*(.*)$`)
)

// Entry is one actionable headline.
type Entry struct {
	ID        string
	State     string
	Priority  string
	Title     string
	Tags      []string
	Scheduled string
	Deadline  string
	Ease      string
	Effort    string
	Body      []string
	Source    string
	Line      int
}

// Pending reports whether the entry is still open.
func (e Entry) Pending() bool {
	return e.State == "TODO" || e.State == "NEXT"
}

func (e Entry) hasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Day returns the scheduled date, else the deadline, in loc.
func (e Entry) Day(loc *time.Location) (time.Time, bool) {
	for _, s := range []string{e.Scheduled, e.Deadline} {
		if s == "" {
			continue
		}
		if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ToModel maps the entry onto owner's model.Task in loc. A missing EFFORT is
// one hour and a missing EASE is easy.
func (e Entry) ToModel(owner string, loc *time.Location) (model.Task, error) {
	day, ok := e.Day(loc)
	if !ok {
		return model.Task{}, &model.ValidationError{Field: "scheduled", Value: e.Title, Err: fmt.Errorf("headline has neither SCHEDULED nor DEADLINE")}
	}

	hours := 1
	if e.Effort != "" {
		d, err := ParseEffort(e.Effort)
		if err != nil {
			return model.Task{}, &model.ValidationError{Field: "effort", Value: e.Effort, Err: err}
		}
		hours = int(math.Ceil(d.Hours()))
	}

	ease := model.Easy
	if e.Ease != "" {
		v, err := model.ParseEase(e.Ease)
		if err != nil {
			return model.Task{}, err
		}
		ease = v
	}

	var prio model.Priority
	switch {
	case e.hasTag(NowTag):
		prio = model.Now
	case e.Priority == "A":
		prio = model.Urgent
	case e.Priority == "B":
		prio = model.SemiUrgent
	default:
		prio = model.NonUrgent
	}

	id := e.ID
	if id == "" {
		id = fmt.Sprintf("%s:%d", filepath.Base(e.Source), e.Line)
	}

	return model.Task{
		ID:          id,
		Owner:       owner,
		Title:       e.Title,
		Description: strings.TrimSpace(strings.Join(e.Body, "\n")),
		Date:        day,
		Duration:    hours,
		Ease:        ease,
		Priority:    prio,
	}, nil
}

// ParseEffort parses an Org effort estimate, "H:MM" or plain minutes.
func ParseEffort(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	h, m, found := strings.Cut(s, ":")
	if !found {
		mins, err := strconv.Atoi(s)
		if err != nil || mins < 0 {
			return 0, fmt.Errorf("invalid effort %q", s)
		}
		return time.Duration(mins) * time.Minute, nil
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid effort %q", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute, nil
}

func parseFile(filePath string) ([]Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses multiple Org-mode files in order.
func ParseFiles(filePaths []string) ([]Entry, error) {
	var all []Entry
	for _, filePath := range filePaths {
		entries, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Parse returns the TODO, NEXT and DONE headlines of an Org-mode document in
// document order. Plain headlines end the entry before them.
func Parse(r io.Reader, source string) ([]Entry, error) {
	log.Debug().Str("source", source).Msg("parsing org file")
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current *Entry
	inDrawer := false
	lineNo := 0

	flush := func() {
		if current != nil && current.Title != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(raw, "*") {
			flush()
			inDrawer = false
			matches := headlineRegex.FindStringSubmatch(raw)
			if matches == nil || matches[1] == "" {
				continue
			}
			current = &Entry{
				State:    matches[1],
				Priority: matches[2],
				Title:    strings.TrimSpace(matches[3]),
				Source:   source,
				Line:     lineNo,
			}
			if tags := strings.Trim(matches[4], ":"); tags != "" {
				current.Tags = strings.Split(tags, ":")
			}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case line == ":PROPERTIES:":
			inDrawer = true
		case line == ":END:":
			inDrawer = false
		case inDrawer:
			if matches := propertyRegex.FindStringSubmatch(line); matches != nil {
				switch strings.ToUpper(matches[1]) {
				case "ID":
					current.ID = matches[2]
				case "EASE":
					current.Ease = matches[2]
				case "EFFORT":
					current.Effort = matches[2]
				}
			}
		case scheduledRegex.MatchString(line) || deadlineRegex.MatchString(line):
			if m := scheduledRegex.FindStringSubmatch(line); m != nil {
				current.Scheduled = m[1]
			}
			if m := deadlineRegex.FindStringSubmatch(line); m != nil {
				current.Deadline = m[1]
			}
		case line != "":
			current.Body = append(current.Body, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// FilterTasks keeps the entries carrying tag.
func FilterTasks(entries []Entry, tag string) []Entry {
	var filtered []Entry
	for _, e := range entries {
		if e.hasTag(tag) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Source serves tasks for a single owner from a set of Org files, re-read on
// every lookup.
type Source struct {
	owner string
	files []string
}

func NewSource(owner string, files []string) *Source {
	return &Source{owner: owner, files: files}
}

// FindTasks returns the owner's open headlines planned for day.
func (s *Source) FindTasks(ctx context.Context, owner string, day time.Time) ([]model.Task, error) {
	if owner != s.owner {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := ParseFiles(s.files)
	if err != nil {
		return nil, fmt.Errorf("read org files: %w", err)
	}

	var out []model.Task
	for _, e := range entries {
		if !e.Pending() {
			continue
		}
		planned, ok := e.Day(day.Location())
		if !ok || !model.SameDay(day, planned) {
			continue
		}
		t, err := e.ToModel(owner, day.Location())
		if err != nil {
			log.Warn().Err(err).Str("source", e.Source).Int("line", e.Line).Msg("skipping org headline")
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
