package achievements

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/catalog/catalogtest"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(catalogtest.New(t, catalogtest.Module("alpha", 1)))
}

func earnEverything(t *testing.T, sess *session.Session) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, sess.StartQuiz(ctx))
	_, err := sess.SelectOption(ctx, 1)
	require.NoError(t, err)
	sess.VisitFunds(ctx)
	for i := 0; i < badges.ChartsForMaster; i++ {
		sess.RecordChartView(ctx)
	}
	for i := 0; i < badges.FactsForFinder; i++ {
		sess.RecordFactRead(ctx)
	}
	for i := 0; i < badges.AnalyzerUsesForBadge; i++ {
		sess.RecordAnalyzerUse(ctx)
	}
	for i := 0; i < badges.WhatIfUsesForBadge; i++ {
		sess.RecordWhatIfUse(ctx)
	}
}

func TestFreshSessionShowsLockedBadges(t *testing.T) {
	s := New(&screen.Env{Session: newTestSession(t)})

	view := s.View(100, 50)

	assert.Contains(t, view, "Earned 0/8")
	assert.Contains(t, view, "No badges yet.")
	assert.Equal(t, 8, strings.Count(view, "🔒"))
	assert.NotContains(t, view, "Trading Legend!")
}

func TestAllBadgesShowLegend(t *testing.T) {
	sess := newTestSession(t)
	earnEverything(t, sess)
	require.True(t, sess.Overview().AllBadgesEarned())

	view := New(&screen.Env{Session: sess}).View(100, 50)

	assert.Contains(t, view, "Earned 8/8")
	assert.Contains(t, view, LegendLine)
	assert.NotContains(t, view, "🔒")
}
