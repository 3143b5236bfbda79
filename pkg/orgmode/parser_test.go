package orgmode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/dosely/pkg/model"
)

const sample = `#+TITLE: work
* Inbox
** TODO [#A] Write report                                         :work:
   SCHEDULED: <2026-10-19 Mon>
   :PROPERTIES:
   :ID:       1b4e28ba-2fa1-11d2-883f-0016d3cca427
   :EASE:     hard
   :EFFORT:   1:30
   :END:
   Quarterly numbers.
** NEXT Call pharmacy                                              :now:
   DEADLINE: <2026-10-19 Mon 17:00>
** DONE Old thing
   SCHEDULED: <2026-10-19 Mon>
** TODO Tomorrow's job
   SCHEDULED: <2026-10-20 Tue>
** Reference notes
   Not a task.
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample), "work.org")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %+v", len(entries), entries)
	}

	report := entries[0]
	if report.Title != "Write report" || report.Priority != "A" || report.State != "TODO" {
		t.Errorf("unexpected headline %+v", report)
	}
	if report.ID != "1b4e28ba-2fa1-11d2-883f-0016d3cca427" || report.Ease != "hard" || report.Effort != "1:30" {
		t.Errorf("unexpected properties %+v", report)
	}
	if report.Scheduled != "2026-10-19" || len(report.Body) != 1 || report.Body[0] != "Quarterly numbers." {
		t.Errorf("unexpected planning/body %+v", report)
	}

	if call := entries[1]; call.Deadline != "2026-10-19" || !call.hasTag("now") {
		t.Errorf("unexpected NEXT entry %+v", call)
	}
	if entries[2].Pending() {
		t.Error("DONE entry should not be pending")
	}
	if got := FilterTasks(entries, "work"); len(got) != 1 || got[0].Title != "Write report" {
		t.Errorf("FilterTasks(work) = %+v", got)
	}
}

func TestToModel(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample), "work.org")
	if err != nil {
		t.Fatal(err)
	}

	report, err := entries[0].ToModel("ana", time.UTC)
	if err != nil {
		t.Fatalf("ToModel failed: %v", err)
	}
	if report.Duration != 2 || report.Ease != model.Difficult || report.Priority != model.Urgent {
		t.Errorf("unexpected mapping %+v", report)
	}
	if report.Description != "Quarterly numbers." || report.Owner != "ana" {
		t.Errorf("unexpected mapping %+v", report)
	}

	call, err := entries[1].ToModel("ana", time.UTC)
	if err != nil {
		t.Fatalf("ToModel failed: %v", err)
	}
	if call.Duration != 1 || call.Ease != model.Easy || call.Priority != model.Now {
		t.Errorf("expected defaults and now priority, got %+v", call)
	}
	if call.ID != "work.org:11" {
		t.Errorf("expected a line-based id, got %q", call.ID)
	}

	bad := Entry{Title: "x", Scheduled: "2026-10-19", Effort: "soon"}
	if _, err := bad.ToModel("ana", time.UTC); !model.IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestParseEffort(t *testing.T) {
	tests := map[string]time.Duration{
		"1:30": 90 * time.Minute,
		"0:45": 45 * time.Minute,
		"120":  2 * time.Hour,
	}
	for in, want := range tests {
		got, err := ParseEffort(in)
		if err != nil || got != want {
			t.Errorf("ParseEffort(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "1:75", "-3", "1h"} {
		if _, err := ParseEffort(in); err == nil {
			t.Errorf("ParseEffort(%q) should fail", in)
		}
	}
}

func TestSourceFindTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.org")
	if err := os.WriteFile(path, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}
	src := NewSource("ana", []string{path})
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	tasks, err := src.FindTasks(context.Background(), "ana", day)
	if err != nil {
		t.Fatalf("FindTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "Write report" || tasks[1].Title != "Call pharmacy" {
		t.Errorf("unexpected tasks %+v", tasks)
	}

	other, err := src.FindTasks(context.Background(), "ben", day)
	if err != nil || len(other) != 0 {
		t.Errorf("expected no tasks for another owner, got %v, %v", other, err)
	}
}
