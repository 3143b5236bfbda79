// Package index remembers which Google Calendar event each scheduled slot was pushed to.
package index

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileName = "events.json"

// EventIndex maps "<day>/<owner>/<event key>" to a Google event id.
type EventIndex struct {
	Mappings map[string]string `json:"mappings"`
	Path     string            `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the index kept in dir, starting empty if there is none yet.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]string),
		Path:     filepath.Join(dir, fileName),
	}

	if _, err := os.Stat(idx.Path); err == nil {
		if err := idx.Load(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Key joins a day, an owner and an event key. The owner is path-escaped so
// it never contains the separator.
func Key(day, owner, eventKey string) string {
	return prefix(day, owner) + eventKey
}

func prefix(day, owner string) string {
	return day + "/" + url.PathEscape(owner) + "/"
}

func (idx *EventIndex) Load() error {
	f, err := os.Open(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx.mu.Lock()
	defer idx.mu.Unlock()
	return json.NewDecoder(f).Decode(&idx.Mappings)
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	f, err := os.Create(idx.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx.Mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(key string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[key]
}

func (idx *EventIndex) Set(key, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[key] != eventID {
		idx.Mappings[key] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[key]; exists {
		delete(idx.Mappings, key)
		idx.dirty = true
	}
}

// KeysFor returns the sorted keys recorded for owner on day.
func (idx *EventIndex) KeysFor(day, owner string) []string {
	p := prefix(day, owner)
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var keys []string
	for k := range idx.Mappings {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// PruneBefore drops every mapping for a day earlier than day (YYYY-MM-DD).
func (idx *EventIndex) PruneBefore(day string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n := 0
	for k := range idx.Mappings {
		d, _, ok := strings.Cut(k, "/")
		if ok && d < day {
			delete(idx.Mappings, k)
			n++
		}
	}
	if n > 0 {
		idx.dirty = true
	}
	return n
}
