// Package quota tracks the daily budget of external extraction calls.
package quota

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/hederw/nfs-extrator/internal/store"
)

// countKey is where the daily counter lives in the kv store.
const countKey = "daily_extraction_count"

// state is the persisted counter record.
type state struct {
	Date  string `json:"date"` // YYYY-MM-DD, local time
	Count int    `json:"count"`
}

// Tracker persists a per-calendar-day counter of extraction calls. The stored
// date is re-checked on every read; when the day rolls over the counter resets
// to zero before any value is returned.
type Tracker struct {
	mu    sync.Mutex
	store store.Store
	limit int
	now   func() time.Time
}

// NewTracker creates a tracker with the given daily limit.
func NewTracker(st store.Store, limit int) *Tracker {
	return &Tracker{store: st, limit: limit, now: time.Now}
}

// Limit returns the configured daily cap.
func (t *Tracker) Limit() int {
	return t.limit
}

// Count returns today's call count, resetting it first if the stored date is
// no longer today.
func (t *Tracker) Count(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.load(ctx)
	if err != nil {
		return 0, err
	}
	return s.Count, nil
}

// Remaining returns how many extraction calls are left today.
func (t *Tracker) Remaining(ctx context.Context) (int, error) {
	count, err := t.Count(ctx)
	if err != nil {
		return 0, err
	}
	remaining := t.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Increment adds one to today's counter and returns the new count. The
// rollover check and the write happen under one lock so concurrent increments
// are never lost.
func (t *Tracker) Increment(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.load(ctx)
	if err != nil {
		return 0, err
	}

	s.Count++
	if err := t.save(ctx, s); err != nil {
		return 0, err
	}
	return s.Count, nil
}

// load reads the persisted state and applies the day rollover. Callers must
// hold t.mu.
func (t *Tracker) load(ctx context.Context) (state, error) {
	today := t.now().Format("2006-01-02")

	raw, ok, err := t.store.Get(ctx, countKey)
	if err != nil {
		return state{}, eris.Wrap(err, "quota: read counter")
	}

	var s state
	if ok {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			// A corrupt counter starts the day over rather than blocking
			// every batch.
			s = state{}
		}
	}

	if s.Date != today {
		s = state{Date: today, Count: 0}
		if err := t.save(ctx, s); err != nil {
			return state{}, err
		}
	}
	return s, nil
}

func (t *Tracker) save(ctx context.Context, s state) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "quota: marshal counter")
	}
	return eris.Wrap(t.store.Set(ctx, countKey, string(raw)), "quota: write counter")
}
