// Package session is the per-learner context object. Presentation layers
// call one mutating method per interaction; each call is followed by badge
// evaluation and journaling.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/store"
)

// Session owns one learner's progress. It is not safe for concurrent use;
// callers serialize access.
type Session struct {
	// id identifies the session in the journal and the HTTP API.
	id string

	cat *catalog.Catalog

	// p is the mutable progress record.
	p *progress.Progress

	badges    *badges.Service
	eventRepo store.EventRepo
	logger    *zap.Logger
	now       func() time.Time

	// startedAt is when the session was created or last reset.
	startedAt time.Time

	// lastActive is when the last interaction happened.
	lastActive time.Time

	// newBadges holds the awards of the most recent mutation.
	newBadges []badges.Award

	// lastOutcome is the grade of the most recent answer for the active quiz.
	lastOutcome *quiz.Outcome
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session ID instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithEventRepo journals answers, badges and lifecycle events to repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(s *Session) { s.eventRepo = repo }
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithBadgeService shares a badge service between sessions.
func WithBadgeService(svc *badges.Service) Option {
	return func(s *Session) { s.badges = svc }
}

// New creates a bootstrapped session over cat.
func New(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		cat:    cat,
		p:      progress.New(cat),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.badges == nil {
		s.badges = badges.NewService(s.eventRepo, s.logger)
		s.badges.SetClock(s.now)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id))
	s.startedAt = s.now()
	s.lastActive = s.startedAt
	s.journalSession(context.Background(), store.ActionStart, "")
	return s
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Catalog returns the content the session runs over.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Progress returns a copy of the progress record.
func (s *Session) Progress() *progress.Progress { return s.p.Clone() }

// StartedAt returns when the session was created or last reset.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// LastActive returns the time of the last interaction.
func (s *Session) LastActive() time.Time { return s.lastActive }

// NewBadges returns the badges awarded by the most recent mutation.
func (s *Session) NewBadges() []badges.Award { return s.newBadges }

// begin opens a mutation.
func (s *Session) begin() {
	s.newBadges = nil
	s.lastActive = s.now()
}

// settle closes a mutation by re-evaluating badges.
func (s *Session) settle(ctx context.Context) {
	s.newBadges = s.badges.Evaluate(ctx, s.id, s.p, s.cat)
}

func (s *Session) rejected(op string, err error) error {
	s.logger.Debug("interaction rejected", zap.String("op", op), zap.Error(err))
	return err
}

// SelectModule switches to module id.
func (s *Session) SelectModule(ctx context.Context, id catalog.ModuleID) error {
	s.begin()
	if err := quiz.SelectModule(s.p, s.cat, id); err != nil {
		return s.rejected("select_module", err)
	}
	s.lastOutcome = nil
	if m, err := s.cat.Module(id); err == nil {
		s.journalSession(ctx, store.ActionModule, m.Slug)
	}
	s.settle(ctx)
	return nil
}

// SelectModuleBySlug switches to the module with the given slug.
func (s *Session) SelectModuleBySlug(ctx context.Context, slug string) error {
	m, err := s.cat.ModuleBySlug(slug)
	if err != nil {
		s.begin()
		return s.rejected("select_module", err)
	}
	return s.SelectModule(ctx, m.ID)
}

// StartQuiz opens tier 1 on the displayed card.
func (s *Session) StartQuiz(ctx context.Context) error {
	s.begin()
	if err := quiz.Start(s.p, s.cat); err != nil {
		return s.rejected("start_quiz", err)
	}
	s.lastOutcome = nil
	s.settle(ctx)
	return nil
}

// SelectOption answers the active quiz with option.
func (s *Session) SelectOption(ctx context.Context, option int) (quiz.Outcome, error) {
	s.begin()
	out, err := quiz.Answer(s.p, s.cat, option)
	if err != nil {
		return out, s.rejected("select_option", err)
	}
	s.lastOutcome = &out
	s.journalAnswer(ctx, out)
	if out.Unlocked {
		s.logger.Info("card unlocked",
			zap.Int("module", int(out.Module)),
			zap.Int("progress", s.p.ModuleProgress[out.Module]),
		)
	}
	s.settle(ctx)
	return out, nil
}

// AdvanceTier moves a passed quiz to its next tier.
func (s *Session) AdvanceTier(ctx context.Context) error {
	s.begin()
	if err := quiz.AdvanceTier(s.p, s.cat); err != nil {
		return s.rejected("advance_tier", err)
	}
	s.lastOutcome = nil
	s.settle(ctx)
	return nil
}

// Retry reopens a failed tier.
func (s *Session) Retry(ctx context.Context) error {
	s.begin()
	if err := quiz.Retry(s.p); err != nil {
		return s.rejected("retry", err)
	}
	s.lastOutcome = nil
	s.settle(ctx)
	return nil
}

// NextCard moves to the next unlocked card.
func (s *Session) NextCard(ctx context.Context) error {
	s.begin()
	if err := quiz.NextCard(s.p, s.cat); err != nil {
		return s.rejected("next_card", err)
	}
	s.lastOutcome = nil
	s.settle(ctx)
	return nil
}

// PrevCard moves to the previous card.
func (s *Session) PrevCard(ctx context.Context) error {
	s.begin()
	if err := quiz.PrevCard(s.p, s.cat); err != nil {
		return s.rejected("prev_card", err)
	}
	s.lastOutcome = nil
	s.settle(ctx)
	return nil
}

// LeaveQuiz discards the active quiz.
func (s *Session) LeaveQuiz(ctx context.Context) {
	s.begin()
	quiz.Leave(s.p)
	s.lastOutcome = nil
	s.settle(ctx)
}

// RecordChartView counts a rendered chart. Call it only for non-empty data.
func (s *Session) RecordChartView(ctx context.Context) {
	s.begin()
	s.p.Counters.ChartsViewed++
	s.settle(ctx)
}

// RecordFactRead counts a market fact shown to the learner.
func (s *Session) RecordFactRead(ctx context.Context) {
	s.begin()
	s.p.Counters.FactsRead++
	s.settle(ctx)
}

// RecordAnalyzerUse counts an analyzer run. It is counted before the fetch,
// so failed lookups still count.
func (s *Session) RecordAnalyzerUse(ctx context.Context) {
	s.begin()
	s.p.Counters.AnalyzerUses++
	s.settle(ctx)
}

// RecordWhatIfUse counts a calculator run, before validation.
func (s *Session) RecordWhatIfUse(ctx context.Context) {
	s.begin()
	s.p.Counters.WhatIfUses++
	s.settle(ctx)
}

// VisitFunds marks the funds explorer as visited.
func (s *Session) VisitFunds(ctx context.Context) {
	s.begin()
	s.p.FundsVisited = true
	s.settle(ctx)
}

// SetWhatIfInputs stores the calculator inputs. Zero fields keep their
// current value.
func (s *Session) SetWhatIfInputs(ctx context.Context, in progress.WhatIfInputs) {
	s.begin()
	if in.Symbol != "" {
		s.p.WhatIf.Symbol = in.Symbol
	}
	if !in.Start.IsZero() {
		s.p.WhatIf.Start = in.Start
	}
	if in.Amount != 0 {
		s.p.WhatIf.Amount = in.Amount
	}
	s.settle(ctx)
}

// SetAnalyzerSymbol stores the analyzer's symbol.
func (s *Session) SetAnalyzerSymbol(ctx context.Context, symbol string) {
	s.begin()
	if symbol != "" {
		s.p.AnalyzerSymbol = symbol
	}
	s.settle(ctx)
}

// FactAmount is the investment a fun fact fills into the calculator.
const FactAmount = 1000

// TryFact loads fact i into the what-if inputs and counts it as read.
func (s *Session) TryFact(ctx context.Context, i int) (catalog.Fact, error) {
	s.begin()
	f, err := s.cat.Fact(i)
	if err != nil {
		return catalog.Fact{}, s.rejected("try_fact", err)
	}
	start, err := f.StartDate()
	if err != nil {
		return catalog.Fact{}, s.rejected("try_fact", err)
	}
	s.p.WhatIf = progress.WhatIfInputs{Symbol: f.Symbol, Start: start, Amount: FactAmount}
	s.p.Counters.FactsRead++
	s.settle(ctx)
	return f, nil
}

// Reset wipes all progress and restores defaults.
func (s *Session) Reset(ctx context.Context) {
	s.begin()
	s.p.Reset()
	s.p.Bootstrap(s.cat)
	s.lastOutcome = nil
	s.startedAt = s.now()
	s.journalSession(ctx, store.ActionReset, "")
	s.logger.Info("session reset")
}

// End journals the end of the session.
func (s *Session) End(ctx context.Context) {
	d := s.now().Sub(s.startedAt).Round(time.Second)
	s.journalSession(ctx, store.ActionEnd, d.String())
}

func (s *Session) journalAnswer(ctx context.Context, out quiz.Outcome) {
	if s.eventRepo == nil {
		return
	}
	data := store.AnswerEventData{
		SessionID: s.id,
		Timestamp: s.now(),
		CardIndex: out.Card,
		Tier:      out.Tier,
		Option:    out.Option,
		Correct:   out.Correct,
	}
	if m, err := s.cat.Module(out.Module); err == nil {
		data.ModuleSlug = m.Slug
	}
	if card, err := s.cat.Card(out.Module, out.Card); err == nil {
		data.Term = card.Term
		if q, err := card.Question(out.Tier); err == nil {
			data.Question = q.Prompt
		}
	}
	if err := s.eventRepo.AppendAnswerEvent(ctx, data); err != nil {
		s.logger.Warn("journal answer", zap.Error(err))
	}
}

func (s *Session) journalSession(ctx context.Context, action, detail string) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: s.id,
		Timestamp: s.now(),
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		s.logger.Warn("journal session event", zap.String("action", action), zap.Error(err))
	}
}
