package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/catalog/catalogtest"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/store"
)

// mockEventRepo implements store.EventRepo for session tests.
type mockEventRepo struct {
	answers  []store.AnswerEventData
	badges   []store.BadgeEventData
	sessions []store.SessionEventData
	err      error
}

func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answers = append(m.answers, data)
	return m.err
}
func (m *mockEventRepo) AppendBadgeEvent(_ context.Context, data store.BadgeEventData) error {
	m.badges = append(m.badges, data)
	return m.err
}
func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.sessions = append(m.sessions, data)
	return m.err
}
func (m *mockEventRepo) QueryAnswerEvents(_ context.Context, _ string, _ store.QueryOpts) ([]store.AnswerEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryBadgeEvents(_ context.Context, _ string, _ store.QueryOpts) ([]store.BadgeEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QuerySessionEvents(_ context.Context, _ string, _ store.QueryOpts) ([]store.SessionEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) AnswerStats(_ context.Context, _ string) ([]store.ModuleAnswerStats, error) {
	return nil, nil
}

var ctx = context.Background()

func newTestSession(t *testing.T, repo store.EventRepo) *Session {
	t.Helper()
	cat := catalogtest.New(t,
		catalogtest.Module("a", 2, 2),
		catalogtest.Module("b", 1),
	)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts := []Option{WithID("test"), WithClock(func() time.Time { return at })}
	if repo != nil {
		opts = append(opts, WithEventRepo(repo))
	}
	return New(cat, opts...)
}

func TestNew_DefaultsAndJournal(t *testing.T) {
	repo := &mockEventRepo{}
	s := newTestSession(t, repo)
	if s.ID() != "test" {
		t.Errorf("ID = %q", s.ID())
	}
	if len(repo.sessions) != 1 || repo.sessions[0].Action != store.ActionStart {
		t.Errorf("session events = %+v", repo.sessions)
	}

	cat := catalog.Default()
	if id := New(cat).ID(); len(id) != 36 {
		t.Errorf("generated ID = %q, want a UUID", id)
	}
}

func TestQuizFlow_UnlocksAndJournals(t *testing.T) {
	repo := &mockEventRepo{}
	s := newTestSession(t, repo)

	if err := s.StartQuiz(ctx); err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	v, ok := s.ActiveQuiz()
	if !ok || v.Tier != 1 || v.Tiers != 2 || v.Status != progress.StatusPending || v.Selected != progress.NoSelection {
		t.Fatalf("quiz view = %+v, %v", v, ok)
	}

	out, err := s.SelectOption(ctx, 1)
	if err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if !out.Correct || !out.Unlocked {
		t.Errorf("outcome = %+v", out)
	}
	if s.LastOutcome() == nil || !s.LastOutcome().Correct {
		t.Errorf("LastOutcome = %+v", s.LastOutcome())
	}

	awards := s.NewBadges()
	if len(awards) != 1 || awards[0].Badge.ID != catalog.BadgeRookie {
		t.Errorf("NewBadges = %+v, want rookie", awards)
	}

	v, _ = s.ActiveQuiz()
	if v.Status != progress.StatusPassed || !v.HasNextTier || !v.HasNextCard || v.Explanation != "this is it" {
		t.Errorf("passed view = %+v", v)
	}

	if len(repo.answers) != 1 {
		t.Fatalf("answers journaled = %d, want 1", len(repo.answers))
	}
	a := repo.answers[0]
	if a.SessionID != "test" || a.ModuleSlug != "a" || a.Tier != 1 || !a.Correct || a.Term != "a term 0" {
		t.Errorf("answer event = %+v", a)
	}
	if len(repo.badges) != 1 || repo.badges[0].BadgeID != "rookie" {
		t.Errorf("badge events = %+v", repo.badges)
	}

	if err := s.AdvanceTier(ctx); err != nil {
		t.Fatalf("AdvanceTier: %v", err)
	}
	if len(s.NewBadges()) != 0 {
		t.Errorf("NewBadges after AdvanceTier = %+v", s.NewBadges())
	}
	if s.LastOutcome() != nil {
		t.Error("LastOutcome should clear on tier advance")
	}
}

func TestSelectOption_WrongThenRetry(t *testing.T) {
	s := newTestSession(t, nil)
	mustNil(t, s.StartQuiz(ctx))

	out, err := s.SelectOption(ctx, 2)
	mustNil(t, err)
	if out.Correct {
		t.Fatal("option 2 should be wrong")
	}
	v, _ := s.ActiveQuiz()
	if v.Status != progress.StatusFailed || v.Feedback != "nope" || v.Explanation != "" {
		t.Errorf("failed view = %+v", v)
	}

	mustNil(t, s.Retry(ctx))
	v, _ = s.ActiveQuiz()
	if v.Status != progress.StatusPending {
		t.Errorf("status after retry = %s", v.Status)
	}
}

func TestSelectOption_RejectedLeavesProgress(t *testing.T) {
	s := newTestSession(t, nil)
	mustNil(t, s.StartQuiz(ctx))
	before := s.Progress()

	if _, err := s.SelectOption(ctx, 9); !errors.Is(err, quiz.ErrOptionOutOfRange) {
		t.Errorf("err = %v, want ErrOptionOutOfRange", err)
	}
	if !reflect.DeepEqual(before, s.Progress()) {
		t.Error("rejected answer mutated progress")
	}
}

func TestCardNavigation(t *testing.T) {
	s := newTestSession(t, nil)

	cv := s.CurrentCard()
	if cv.Index != 0 || cv.Total != 2 || cv.CanNext || cv.CanPrev || cv.Mastered {
		t.Errorf("initial card = %+v", cv)
	}
	if cv.QuizLabel() != "Test My Understanding" {
		t.Errorf("label = %q", cv.QuizLabel())
	}
	if err := s.NextCard(ctx); !errors.Is(err, quiz.ErrCardLocked) {
		t.Errorf("err = %v, want ErrCardLocked", err)
	}

	mustNil(t, s.StartQuiz(ctx))
	_, err := s.SelectOption(ctx, 1)
	mustNil(t, err)

	cv = s.CurrentCard()
	if !cv.Mastered || !cv.CanNext || cv.QuizLabel() != "Review Quiz" {
		t.Errorf("after pass = %+v", cv)
	}
	mustNil(t, s.NextCard(ctx))
	if _, ok := s.ActiveQuiz(); ok {
		t.Error("NextCard should clear the active quiz")
	}
	cv = s.CurrentCard()
	if cv.Index != 1 || cv.Card.Term != "a term 1" || !cv.CanPrev || cv.CanNext {
		t.Errorf("second card = %+v", cv)
	}
	mustNil(t, s.PrevCard(ctx))
	if s.CurrentCard().Index != 0 {
		t.Errorf("index after prev = %d", s.CurrentCard().Index)
	}
}

func TestModuleComplete(t *testing.T) {
	s := newTestSession(t, nil)
	mustNil(t, s.SelectModuleBySlug(ctx, "b"))
	mustNil(t, s.StartQuiz(ctx))
	_, err := s.SelectOption(ctx, 1)
	mustNil(t, err)

	v, _ := s.ActiveQuiz()
	if v.HasNextTier || v.HasNextCard || !v.ModuleComplete {
		t.Errorf("view = %+v", v)
	}
	o := s.Overview()
	if o.Modules[1].CompletionPct != 100 || o.Modules[1].Shield.Label() != "Level 3 (Max)" {
		t.Errorf("module b = %+v", o.Modules[1])
	}
}

func TestSelectModule(t *testing.T) {
	repo := &mockEventRepo{}
	s := newTestSession(t, repo)
	mustNil(t, s.StartQuiz(ctx))
	mustNil(t, s.SelectModule(ctx, 1))
	if _, ok := s.ActiveQuiz(); ok {
		t.Error("SelectModule should clear the active quiz")
	}
	if s.CurrentModule().Slug != "b" {
		t.Errorf("current = %q", s.CurrentModule().Slug)
	}
	if last := repo.sessions[len(repo.sessions)-1]; last.Action != store.ActionModule || last.Detail != "b" {
		t.Errorf("last session event = %+v", last)
	}
	if err := s.SelectModuleBySlug(ctx, "zzz"); !errors.Is(err, catalog.ErrModuleNotFound) {
		t.Errorf("err = %v, want ErrModuleNotFound", err)
	}
}

func TestCountersAwardBadges(t *testing.T) {
	s := newTestSession(t, nil)
	for i := 0; i < 4; i++ {
		s.RecordWhatIfUse(ctx)
		if len(s.NewBadges()) != 0 {
			t.Fatalf("badge after %d uses", i+1)
		}
	}
	s.RecordWhatIfUse(ctx)
	if got := s.NewBadges(); len(got) != 1 || got[0].Badge.ID != catalog.BadgePortfolioVisionary {
		t.Errorf("NewBadges = %+v", got)
	}

	for i := 0; i < 5; i++ {
		s.RecordAnalyzerUse(ctx)
	}
	for i := 0; i < 10; i++ {
		s.RecordChartView(ctx)
	}
	s.VisitFunds(ctx)
	o := s.Overview()
	want := progress.Counters{ChartsViewed: 10, AnalyzerUses: 5, WhatIfUses: 5}
	if o.Counters != want {
		t.Errorf("counters = %+v, want %+v", o.Counters, want)
	}
	if len(o.Earned) != 4 || len(o.Locked) != 4 {
		t.Errorf("earned = %d locked = %d", len(o.Earned), len(o.Locked))
	}
}

func TestTryFact(t *testing.T) {
	s := New(catalog.Default(), WithID("f"))
	f, err := s.TryFact(ctx, 0)
	mustNil(t, err)

	p := s.Progress()
	start, _ := f.StartDate()
	if p.WhatIf.Symbol != f.Symbol || !p.WhatIf.Start.Equal(start) || p.WhatIf.Amount != FactAmount {
		t.Errorf("what-if = %+v, fact = %+v", p.WhatIf, f)
	}
	if p.Counters.FactsRead != 1 {
		t.Errorf("facts read = %d, want 1", p.Counters.FactsRead)
	}
	if _, err := s.TryFact(ctx, 99); !errors.Is(err, catalog.ErrFactNotFound) {
		t.Errorf("err = %v, want ErrFactNotFound", err)
	}
}

func TestSetInputs(t *testing.T) {
	s := newTestSession(t, nil)
	start := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	s.SetWhatIfInputs(ctx, progress.WhatIfInputs{Symbol: "MSFT", Start: start})
	s.SetAnalyzerSymbol(ctx, "TSLA")
	s.SetAnalyzerSymbol(ctx, "")

	p := s.Progress()
	if p.WhatIf.Symbol != "MSFT" || !p.WhatIf.Start.Equal(start) || p.WhatIf.Amount != progress.DefaultWhatIfAmount {
		t.Errorf("what-if = %+v", p.WhatIf)
	}
	if p.AnalyzerSymbol != "TSLA" {
		t.Errorf("analyzer symbol = %q", p.AnalyzerSymbol)
	}
}

func TestReset(t *testing.T) {
	repo := &mockEventRepo{}
	s := newTestSession(t, repo)
	mustNil(t, s.StartQuiz(ctx))
	_, _ = s.SelectOption(ctx, 1)
	s.VisitFunds(ctx)
	s.RecordChartView(ctx)

	s.Reset(ctx)

	fresh := progress.New(s.Catalog())
	if !reflect.DeepEqual(s.Progress(), fresh) {
		t.Errorf("progress after reset = %+v", s.Progress())
	}
	if len(s.NewBadges()) != 0 {
		t.Errorf("NewBadges after reset = %+v", s.NewBadges())
	}
	if last := repo.sessions[len(repo.sessions)-1]; last.Action != store.ActionReset {
		t.Errorf("last session event = %+v", last)
	}
	if o := s.Overview(); len(o.Earned) != 0 || o.Overall.Completed != 0 {
		t.Errorf("overview after reset = %+v", o)
	}
}

func TestJournalFailureDoesNotFailInteraction(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("read-only database")}
	s := newTestSession(t, repo)
	mustNil(t, s.StartQuiz(ctx))
	out, err := s.SelectOption(ctx, 1)
	if err != nil || !out.Correct {
		t.Errorf("SelectOption = %+v, %v", out, err)
	}
	if !s.Progress().HasBadge(catalog.BadgeRookie) {
		t.Error("badge not awarded when journal fails")
	}
}

func TestEnd(t *testing.T) {
	repo := &mockEventRepo{}
	s := newTestSession(t, repo)
	s.End(ctx)
	if last := repo.sessions[len(repo.sessions)-1]; last.Action != store.ActionEnd || last.Detail != "0s" {
		t.Errorf("last session event = %+v", last)
	}
}

func TestOverview_AllBadges(t *testing.T) {
	s := New(catalog.Default())
	if s.Overview().AllBadgesEarned() {
		t.Error("fresh session has all badges")
	}
	if s.Overview().Overall.Total != 23 {
		t.Errorf("total cards = %d", s.Overview().Overall.Total)
	}
}

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
