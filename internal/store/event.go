package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type eventRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

type answerRow struct {
	Sequence   int64  `db:"sequence"`
	TsMs       int64  `db:"ts_ms"`
	SessionID  string `db:"session_id"`
	ModuleSlug string `db:"module_slug"`
	CardIndex  int    `db:"card_index"`
	Tier       int    `db:"tier"`
	Option     int    `db:"option_index"`
	Correct    bool   `db:"correct"`
	Term       string `db:"term"`
	Question   string `db:"question"`
}

type badgeRow struct {
	Sequence  int64  `db:"sequence"`
	TsMs      int64  `db:"ts_ms"`
	SessionID string `db:"session_id"`
	BadgeID   string `db:"badge_id"`
}

type sessionRow struct {
	Sequence  int64  `db:"sequence"`
	TsMs      int64  `db:"ts_ms"`
	SessionID string `db:"session_id"`
	Action    string `db:"action"`
	Detail    string `db:"detail"`
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO answer_events
		(sequence, ts_ms, session_id, module_slug, card_index, tier, option_index, correct, term, question)
		VALUES (:sequence, :ts_ms, :session_id, :module_slug, :card_index, :tier, :option_index, :correct, :term, :question)`,
		answerRow{
			Sequence:   seqNum,
			TsMs:       stamp(data.Timestamp),
			SessionID:  data.SessionID,
			ModuleSlug: data.ModuleSlug,
			CardIndex:  data.CardIndex,
			Tier:       data.Tier,
			Option:     data.Option,
			Correct:    data.Correct,
			Term:       data.Term,
			Question:   data.Question,
		})
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendBadgeEvent(ctx context.Context, data BadgeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO badge_events (sequence, ts_ms, session_id, badge_id) VALUES (?, ?, ?, ?)`,
		seqNum, stamp(data.Timestamp), data.SessionID, data.BadgeID)
	if err != nil {
		return fmt.Errorf("save badge event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_events (sequence, ts_ms, session_id, action, detail) VALUES (?, ?, ?, ?, ?)`,
		seqNum, stamp(data.Timestamp), data.SessionID, data.Action, data.Detail)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]AnswerEventRecord, error) {
	q, args := newFilter(sessionID, opts).query(
		"sequence, ts_ms, session_id, module_slug, card_index, tier, option_index, correct, term, question",
		"answer_events", opts.Limit)

	var rows []answerRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}

	records := make([]AnswerEventRecord, len(rows))
	for i, e := range rows {
		records[i] = AnswerEventRecord{
			AnswerEventData: AnswerEventData{
				SessionID:  e.SessionID,
				Timestamp:  time.UnixMilli(e.TsMs),
				ModuleSlug: e.ModuleSlug,
				CardIndex:  e.CardIndex,
				Tier:       e.Tier,
				Option:     e.Option,
				Correct:    e.Correct,
				Term:       e.Term,
				Question:   e.Question,
			},
			Sequence: e.Sequence,
		}
	}
	return records, nil
}

func (r *eventRepo) QueryBadgeEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]BadgeEventRecord, error) {
	q, args := newFilter(sessionID, opts).query(
		"sequence, ts_ms, session_id, badge_id", "badge_events", opts.Limit)

	var rows []badgeRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query badge events: %w", err)
	}

	records := make([]BadgeEventRecord, len(rows))
	for i, e := range rows {
		records[i] = BadgeEventRecord{
			BadgeEventData: BadgeEventData{
				SessionID: e.SessionID,
				Timestamp: time.UnixMilli(e.TsMs),
				BadgeID:   e.BadgeID,
			},
			Sequence: e.Sequence,
		}
	}
	return records, nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, sessionID string, opts QueryOpts) ([]SessionEventRecord, error) {
	q, args := newFilter(sessionID, opts).query(
		"sequence, ts_ms, session_id, action, detail", "session_events", opts.Limit)

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}

	records := make([]SessionEventRecord, len(rows))
	for i, e := range rows {
		records[i] = SessionEventRecord{
			SessionEventData: SessionEventData{
				SessionID: e.SessionID,
				Timestamp: time.UnixMilli(e.TsMs),
				Action:    e.Action,
				Detail:    e.Detail,
			},
			Sequence: e.Sequence,
		}
	}
	return records, nil
}

func (r *eventRepo) AnswerStats(ctx context.Context, sessionID string) ([]ModuleAnswerStats, error) {
	q := `SELECT module_slug, COUNT(*) AS attempts, COALESCE(SUM(correct), 0) AS correct
		FROM answer_events`
	var args []any
	if sessionID != "" {
		q += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	q += ` GROUP BY module_slug ORDER BY module_slug`

	var stats []ModuleAnswerStats
	if err := r.db.SelectContext(ctx, &stats, q, args...); err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	return stats, nil
}
