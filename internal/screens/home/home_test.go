package home

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wallstreet101/internal/catalog/catalogtest"
	"github.com/abhisek/wallstreet101/internal/market/markettest"
	"github.com/abhisek/wallstreet101/internal/router"
	"github.com/abhisek/wallstreet101/internal/screen"
	"github.com/abhisek/wallstreet101/internal/screen/screentest"
	"github.com/abhisek/wallstreet101/internal/screens/learn"
	"github.com/abhisek/wallstreet101/internal/session"
)

func newTestHome(t *testing.T) (*HomeScreen, *session.Session) {
	t.Helper()
	sess := session.New(catalogtest.New(t, catalogtest.Module("alpha", 1, 1), catalogtest.Module("beta", 1)))
	return New(&screen.Env{Session: sess, Market: markettest.New()}), sess
}

func TestHotkeyPushesLearn(t *testing.T) {
	h, _ := newTestHome(t)

	res := screentest.Press(h, "l")

	require.Len(t, res.Msgs, 1)
	push, ok := res.Msgs[0].(router.PushScreenMsg)
	require.True(t, ok, "got %T", res.Msgs[0])
	_, ok = push.Screen.(*learn.LearnScreen)
	assert.True(t, ok)
}

func TestHistoryDisabledWithoutJournal(t *testing.T) {
	h, _ := newTestHome(t)

	res := screentest.Press(h, "h")

	assert.Empty(t, res.Msgs)
}

func TestResetAsksForConfirmation(t *testing.T) {
	ctx := context.Background()
	h, sess := newTestHome(t)
	require.NoError(t, sess.StartQuiz(ctx))
	_, err := sess.SelectOption(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, sess.Overview().Overall.Completed)

	screentest.Press(h, "r")
	assert.Contains(t, h.View(120, 50), "Continue? (y/n)")
	screentest.Press(h, "n")
	assert.Equal(t, 1, sess.Overview().Overall.Completed)

	screentest.Press(h, "r")
	screentest.Press(h, "y")
	assert.Equal(t, 0, sess.Overview().Overall.Completed)
	assert.Empty(t, sess.Overview().Earned)
}

func TestViewShowsProgress(t *testing.T) {
	h, _ := newTestHome(t)

	view := h.View(120, 50)

	assert.Contains(t, view, "0/3 Concepts (0%)")
	assert.Contains(t, view, "0/8 Badges")
}
