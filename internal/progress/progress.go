// Package progress keeps per-kind practice statistics.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/scoring"
)

// Record aggregates submissions for one exercise kind.
type Record struct {
	Completed int `json:"completed"`
	Scored    int `json:"scored"`

	// Accuracy is the mean score ratio over scored submissions, in [0, 1].
	Accuracy float64 `json:"accuracy"`

	// Streak counts consecutive passing scored submissions.
	Streak      int     `json:"streak"`
	BestStreak  int     `json:"best_streak"`
	BestPercent float64 `json:"best_percent"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Apply folds one submission into r. A nil result counts as completed but
// unscored.
func (r Record) Apply(res *scoring.Result, now time.Time) Record {
	r.Completed++
	r.UpdatedAt = now
	if res == nil {
		return r
	}

	ratio := math.Max(0, math.Min(1, res.Ratio()))
	r.Accuracy = (r.Accuracy*float64(r.Scored) + ratio) / float64(r.Scored+1)
	r.Scored++

	if res.Passed() {
		r.Streak++
	} else {
		r.Streak = 0
	}
	r.BestStreak = max(r.BestStreak, r.Streak)
	r.BestPercent = math.Max(r.BestPercent, res.Percent)
	return r
}

// Blobs is a key/value store of whole progress blobs.
type Blobs interface {
	// Get returns nil data when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string][]byte, error)
}

// Tracker reads, updates and writes progress records. Updates within one
// process are serialized; across processes the last writer wins.
type Tracker struct {
	blobs Blobs
	log   *logger.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// NewTracker creates a tracker over blobs.
func NewTracker(blobs Blobs, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{blobs: blobs, log: log, now: time.Now}
}

// Record loads the record for key, applies res and saves it.
func (t *Tracker) Record(ctx context.Context, key string, res *scoring.Result) (Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, err := t.Get(ctx, key)
	if err != nil {
		return Record{}, err
	}
	next := cur.Apply(res, t.now().UTC())

	data, err := json.Marshal(next)
	if err != nil {
		return Record{}, fmt.Errorf("encode progress: %w", err)
	}
	if err := t.blobs.Put(ctx, key, data); err != nil {
		return Record{}, err
	}
	t.log.Debug("progress updated", "key", key, "completed", next.Completed, "streak", next.Streak)
	return next, nil
}

// Get returns the record for key, or a zero record.
func (t *Tracker) Get(ctx context.Context, key string) (Record, error) {
	data, err := t.blobs.Get(ctx, key)
	if err != nil || data == nil {
		return Record{}, err
	}
	return decode(key, data)
}

// All returns every stored record by key.
func (t *Tracker) All(ctx context.Context) (map[string]Record, error) {
	blobs, err := t.blobs.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Record, len(blobs))
	for k, data := range blobs {
		rec, err := decode(k, data)
		if err != nil {
			t.log.Warn("skipping corrupt progress", "key", k, "error", err)
			continue
		}
		out[k] = rec
	}
	return out, nil
}

// Reset deletes the record for key.
func (t *Tracker) Reset(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.blobs.Delete(ctx, key)
}

// ResetAll deletes every record.
func (t *Tracker) ResetAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	blobs, err := t.blobs.All(ctx)
	if err != nil {
		return err
	}
	for k := range blobs {
		if err := t.blobs.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func decode(key string, data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode progress %s: %w", key, err)
	}
	rec.Accuracy = math.Max(0, math.Min(1, rec.Accuracy))
	return rec, nil
}
