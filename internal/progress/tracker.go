// Package progress keeps the per-day completion log and derives streaks from it.
package progress

import (
	"slices"
	"sort"
	"time"

	"leetracker/internal/models"
)

// DateLayout is the key format for daily entries.
const DateLayout = "2006-01-02"

// Tracker is not safe for concurrent use; the store serializes access.
type Tracker struct {
	entries []models.DailyProgress
	index   map[string]int
	now     func() time.Time
}

type Option func(*Tracker)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New builds a tracker over an existing log. Counts are recomputed from the
// id sets and duplicate ids are collapsed, so a hand-edited log can't break
// the count invariant.
func New(entries []models.DailyProgress, opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.load(entries)
	return t
}

func (t *Tracker) load(entries []models.DailyProgress) {
	t.entries = make([]models.DailyProgress, 0, len(entries))
	t.index = make(map[string]int, len(entries))
	for _, e := range entries {
		ids := dedupe(e.QuestionIDs)
		if i, ok := t.index[e.Date]; ok {
			merged := dedupe(append(t.entries[i].QuestionIDs, ids...))
			t.entries[i].QuestionIDs = merged
			t.entries[i].Count = len(merged)
			continue
		}
		t.index[e.Date] = len(t.entries)
		t.entries = append(t.entries, models.DailyProgress{Date: e.Date, QuestionIDs: ids, Count: len(ids)})
	}
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Today is the local calendar date of the tracker clock.
func (t *Tracker) Today() string {
	return t.now().Format(DateLayout)
}

// RecordCompletion adds id to today's set, creating the entry if needed.
func (t *Tracker) RecordCompletion(id string) {
	today := t.Today()
	i, ok := t.index[today]
	if !ok {
		t.index[today] = len(t.entries)
		t.entries = append(t.entries, models.DailyProgress{Date: today, QuestionIDs: []string{id}, Count: 1})
		return
	}
	e := &t.entries[i]
	if !slices.Contains(e.QuestionIDs, id) {
		e.QuestionIDs = append(e.QuestionIDs, id)
	}
	e.Count = len(e.QuestionIDs)
}

// RecordUncompletion removes id from today's set. The entry stays even when
// it becomes empty.
func (t *Tracker) RecordUncompletion(id string) {
	i, ok := t.index[t.Today()]
	if !ok {
		return
	}
	e := &t.entries[i]
	e.QuestionIDs = slices.DeleteFunc(e.QuestionIDs, func(q string) bool { return q == id })
	e.Count = len(e.QuestionIDs)
}

// DailySeries returns a copy of every entry in insertion order.
func (t *Tracker) DailySeries() []models.DailyProgress {
	out := make([]models.DailyProgress, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Clone()
	}
	return out
}

// Entries is DailySeries under the name the persistence layer uses.
func (t *Tracker) Entries() []models.DailyProgress { return t.DailySeries() }

// CountOn returns the activity count for a date, 0 when there is no entry.
func (t *Tracker) CountOn(date string) int {
	if i, ok := t.index[date]; ok {
		return t.entries[i].Count
	}
	return 0
}

// CurrentStreak counts consecutive active days ending today or yesterday.
// A run whose newest day is older than yesterday has lapsed and counts 0.
func (t *Tracker) CurrentStreak() int {
	var active []time.Time
	for _, e := range t.entries {
		if e.Count <= 0 {
			continue
		}
		d, err := time.ParseInLocation(DateLayout, e.Date, time.Local)
		if err != nil {
			continue
		}
		active = append(active, d)
	}
	if len(active) == 0 {
		return 0
	}
	sort.Slice(active, func(i, j int) bool { return active[i].After(active[j]) })

	today := t.Today()
	yesterday := t.now().AddDate(0, 0, -1).Format(DateLayout)
	newest := active[0].Format(DateLayout)
	if newest != today && newest != yesterday {
		return 0
	}

	streak := 1
	for i := 1; i < len(active); i++ {
		if active[i-1].AddDate(0, 0, -1).Format(DateLayout) != active[i].Format(DateLayout) {
			break
		}
		streak++
	}
	return streak
}

// ActiveDays is the number of dates with at least one completion.
func (t *Tracker) ActiveDays() int {
	n := 0
	for _, e := range t.entries {
		if e.Count > 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent tracker sharing the clock.
func (t *Tracker) Clone() *Tracker {
	return New(t.entries, WithClock(t.now))
}

// Reset drops every entry.
func (t *Tracker) Reset() {
	t.load(nil)
}
