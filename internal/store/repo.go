package store

import (
	"context"
	"strings"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AnswerEventData captures one graded quiz answer.
type AnswerEventData struct {
	SessionID  string
	Timestamp  time.Time
	ModuleSlug string
	CardIndex  int
	Tier       int
	Option     int
	Correct    bool
	Term       string
	Question   string
}

// AnswerEventRecord is a journaled answer.
type AnswerEventRecord struct {
	AnswerEventData
	Sequence int64
}

// BadgeEventData captures one badge award.
type BadgeEventData struct {
	SessionID string
	Timestamp time.Time
	BadgeID   string
}

// BadgeEventRecord is a journaled badge award.
type BadgeEventRecord struct {
	BadgeEventData
	Sequence int64
}

// Session actions.
const (
	ActionStart  = "start"
	ActionReset  = "reset"
	ActionEnd    = "end"
	ActionModule = "module"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID string
	Timestamp time.Time
	Action    string
	Detail    string
}

// SessionEventRecord is a journaled session event.
type SessionEventRecord struct {
	SessionEventData
	Sequence int64
}

// ModuleAnswerStats aggregates answers for one module.
type ModuleAnswerStats struct {
	ModuleSlug string `db:"module_slug"`
	Attempts   int    `db:"attempts"`
	Correct    int    `db:"correct"`
}

// Accuracy returns the correct share of attempts.
func (s ModuleAnswerStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// EventRepo provides append and query access to journal events. An empty
// session ID in a query matches every session.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendBadgeEvent(ctx context.Context, data BadgeEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	QueryAnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEventRecord, error)
	QueryBadgeEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]BadgeEventRecord, error)
	QuerySessionEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]SessionEventRecord, error)

	// AnswerStats returns per-module attempt and correct counts, ordered by slug.
	AnswerStats(ctx context.Context, sessionID string) ([]ModuleAnswerStats, error)
}

// filter builds the WHERE clause shared by every event query.
type filter struct {
	conds []string
	args  []any
}

func newFilter(sessionID string, opts QueryOpts) *filter {
	f := &filter{}
	if sessionID != "" {
		f.add("session_id = ?", sessionID)
	}
	if opts.After > 0 {
		f.add("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		f.add("sequence < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		f.add("ts_ms >= ?", opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		f.add("ts_ms <= ?", opts.To.UnixMilli())
	}
	return f
}

func (f *filter) add(cond string, arg any) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, arg)
}

// query renders a newest-first select over table.
func (f *filter) query(columns, table string, limit int) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(columns)
	b.WriteString(" FROM ")
	b.WriteString(table)
	if len(f.conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(f.conds, " AND "))
	}
	b.WriteString(" ORDER BY sequence DESC")
	args := f.args
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return b.String(), args
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}
