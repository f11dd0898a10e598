package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only
	KindID  string    // attempt events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AttemptEventData captures one settled submission.
type AttemptEventData struct {
	SessionID   string
	KindID      string
	RecordID    int
	Generation  int
	Scored      bool
	Percent     float64
	Correct     int
	Total       int
	ElapsedSecs int
	Source      string
	Feedback    string
	Notice      string
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// KindStats aggregates attempts for one exercise kind.
type KindStats struct {
	KindID     string
	Attempts   int
	Scored     int
	AvgPercent float64
	LastAt     time.Time
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
	// GetLLMEvent returns nil when no event has the given ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendAttempt records a settled submission.
	AppendAttempt(ctx context.Context, data AttemptEventData) error
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)
	AttemptStatsByKind(ctx context.Context) ([]KindStats, error)
}

// ProgressRepo stores progress blobs by key. Writes replace the whole
// blob; the last writer wins.
type ProgressRepo interface {
	// Get returns nil data when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string][]byte, error)
}
