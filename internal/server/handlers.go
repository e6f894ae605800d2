package server

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/charts"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/store"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

// defaultHistoryLimit caps each event list of the history endpoint.
const defaultHistoryLimit = 50

// bind decodes and validates a JSON body.
func (s *Server) bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return s.validate.Struct(req)
}

// withSession runs fn holding the session's lock.
func (s *Server) withSession(c *gin.Context, fn func(ctx context.Context, sess *session.Session) error) {
	e, err := s.sessions.acquire(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	defer e.mu.Unlock()
	if err := fn(c.Request.Context(), e.s); err != nil {
		s.fail(c, err)
	}
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// Catalog.

func (s *Server) listModules(c *gin.Context) {
	mods := s.cat.Modules()
	out := make([]moduleSummary, len(mods))
	for i, m := range mods {
		out[i] = summarizeModule(m)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getModule(c *gin.Context) {
	m, err := s.cat.ModuleBySlug(c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	d := moduleDetail{moduleSummary: summarizeModule(m)}
	for _, card := range m.Cards {
		d.Terms = append(d.Terms, card.Term)
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) getCard(c *gin.Context) {
	m, err := s.cat.ModuleBySlug(c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	idx, err := intParam(c, "index")
	if err != nil {
		s.fail(c, err)
		return
	}
	card, err := m.Card(idx)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (s *Server) listBadges(c *gin.Context) { c.JSON(http.StatusOK, s.cat.Badges()) }
func (s *Server) listFunds(c *gin.Context)  { c.JSON(http.StatusOK, s.cat.Funds()) }
func (s *Server) listFacts(c *gin.Context)  { c.JSON(http.StatusOK, s.cat.Facts()) }

// Session lifecycle.

func (s *Server) createSession(c *gin.Context) {
	sess := s.newSession()
	s.sessions.add(sess)
	s.metrics.activeSessions.Set(float64(s.sessions.len()))
	c.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) getSession(c *gin.Context) {
	s.withSession(c, func(_ context.Context, sess *session.Session) error {
		c.JSON(http.StatusOK, newSessionResponse(sess))
		return nil
	})
}

func (s *Server) endSession(c *gin.Context) {
	e, err := s.sessions.remove(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.activeSessions.Set(float64(s.sessions.len()))
	if err := e.lock(); err != nil {
		s.fail(c, err)
		return
	}
	defer e.mu.Unlock()
	e.closed = true
	e.s.End(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) resetSession(c *gin.Context) {
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		sess.Reset(ctx)
		c.JSON(http.StatusOK, newSessionResponse(sess))
		return nil
	})
}

// Learning.

func (s *Server) selectModule(c *gin.Context) {
	var req selectModuleRequest
	if err := s.bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		if err := sess.SelectModuleBySlug(ctx, req.Module); err != nil {
			return err
		}
		c.JSON(http.StatusOK, newState(sess, sess.NewBadges()))
		return nil
	})
}

// step adapts a session mutation into a handler returning the new state.
func (s *Server) step(op func(*session.Session, context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.withSession(c, func(ctx context.Context, sess *session.Session) error {
			if err := op(sess, ctx); err != nil {
				return err
			}
			c.JSON(http.StatusOK, newState(sess, sess.NewBadges()))
			return nil
		})
	}
}

func (s *Server) nextCard(c *gin.Context)  { s.step((*session.Session).NextCard)(c) }
func (s *Server) prevCard(c *gin.Context)  { s.step((*session.Session).PrevCard)(c) }
func (s *Server) startQuiz(c *gin.Context) { s.step((*session.Session).StartQuiz)(c) }
func (s *Server) retryQuiz(c *gin.Context) { s.step((*session.Session).Retry)(c) }
func (s *Server) nextTier(c *gin.Context)  { s.step((*session.Session).AdvanceTier)(c) }

func (s *Server) getQuiz(c *gin.Context) {
	s.withSession(c, func(_ context.Context, sess *session.Session) error {
		v, ok := sess.ActiveQuiz()
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: http.StatusText(http.StatusNotFound), Details: "no active quiz"})
			return nil
		}
		c.JSON(http.StatusOK, newQuizResponse(v))
		return nil
	})
}

func (s *Server) leaveQuiz(c *gin.Context) {
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		sess.LeaveQuiz(ctx)
		c.JSON(http.StatusOK, newState(sess, sess.NewBadges()))
		return nil
	})
}

func (s *Server) answerQuiz(c *gin.Context) {
	var req answerRequest
	if err := s.bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		out, err := sess.SelectOption(ctx, *req.Option)
		if err != nil {
			return err
		}
		s.metrics.observeAnswer(out.Correct)
		resp := newState(sess, sess.NewBadges())
		o := newOutcomeResponse(out)
		resp.Outcome = &o
		c.JSON(http.StatusOK, resp)
		return nil
	})
}

// Tools.

func (s *Server) chart(c *gin.Context) {
	concept := catalog.Concept(c.DefaultQuery("concept", string(catalog.ConceptPrice)))
	if _, err := s.sessions.get(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	view := charts.Study(s.market.RecentHistory(c.Request.Context(), c.Param("symbol"), market.DefaultPeriod), concept)

	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		var awards []badges.Award
		if !view.Empty() {
			sess.RecordChartView(ctx)
			awards = sess.NewBadges()
		}
		c.JSON(http.StatusOK, gin.H{"chart": view, "title": view.Title(), "new_badges": badgeList(awards)})
		return nil
	})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzerRequest
	if err := s.bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	var awards []badges.Award
	ok := s.lockedCall(c, func(ctx context.Context, sess *session.Session) {
		sess.SetAnalyzerSymbol(ctx, req.Symbol)
		sess.RecordAnalyzerUse(ctx)
		awards = sess.NewBadges()
	})
	if !ok {
		return
	}

	report, err := s.analyzer.Analyze(c.Request.Context(), req.Symbol)
	if err != nil {
		s.fail(c, err)
		return
	}
	view := charts.Study(report.History, catalog.ConceptPrice)
	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"chart":      view,
		"new_badges": badgeList(awards),
	})
}

func (s *Server) calculate(c *gin.Context) {
	var req whatIfRequest
	if err := s.bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	start, err := time.Parse(whatif.DateLayout, req.Start)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: start: %v", errBadRequest, err))
		return
	}

	var awards []badges.Award
	ok := s.lockedCall(c, func(ctx context.Context, sess *session.Session) {
		sess.SetWhatIfInputs(ctx, progress.WhatIfInputs{Symbol: req.Symbol, Start: start, Amount: req.Amount})
		sess.RecordWhatIfUse(ctx)
		awards = sess.NewBadges()
	})
	if !ok {
		return
	}

	res, err := s.whatif.Calculate(c.Request.Context(), whatif.Request{Symbol: req.Symbol, Start: start, Amount: req.Amount})
	if err != nil {
		status := statusFor(err)
		c.AbortWithStatusJSON(status, ErrorResponse{Message: whatif.Message(req.Symbol, err), Details: err.Error()})
		return
	}

	s.lockedCall(c, func(ctx context.Context, sess *session.Session) {
		sess.RecordChartView(ctx)
		awards = append(awards, sess.NewBadges()...)
	})
	c.JSON(http.StatusOK, gin.H{
		"result":     res,
		"summary":    res.Summary(),
		"final":      res.FinalDisplay(),
		"roi":        res.ROIDisplay(),
		"new_badges": badgeList(awards),
	})
}

// lockedCall runs fn under the session lock and reports whether the
// session was found. A missing session is answered with 404.
func (s *Server) lockedCall(c *gin.Context, fn func(ctx context.Context, sess *session.Session)) bool {
	e, err := s.sessions.acquire(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return false
	}
	defer e.mu.Unlock()
	fn(c.Request.Context(), e.s)
	return true
}

func (s *Server) randomFact(c *gin.Context) {
	facts := s.cat.Facts()
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		if len(facts) == 0 {
			return catalog.ErrFactNotFound
		}
		i := rand.IntN(len(facts))
		sess.RecordFactRead(ctx)
		c.JSON(http.StatusOK, gin.H{"index": i, "fact": facts[i], "new_badges": badgeList(sess.NewBadges())})
		return nil
	})
}

func (s *Server) tryFact(c *gin.Context) {
	idx, err := intParam(c, "index")
	if err != nil {
		s.fail(c, err)
		return
	}
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		f, err := sess.TryFact(ctx, idx)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"fact":       f,
			"what_if":    sess.Overview().WhatIf,
			"new_badges": badgeList(sess.NewBadges()),
		})
		return nil
	})
}

func (s *Server) funds(c *gin.Context) {
	s.withSession(c, func(ctx context.Context, sess *session.Session) error {
		sess.VisitFunds(ctx)
		c.JSON(http.StatusOK, gin.H{"funds": s.cat.Funds(), "new_badges": badgeList(sess.NewBadges())})
		return nil
	})
}

func (s *Server) history(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(c, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}

	id := c.Param("id")
	if _, err := s.sessions.get(id); err != nil {
		s.fail(c, err)
		return
	}
	if s.eventRepo == nil {
		c.JSON(http.StatusOK, newHistory(nil, nil, nil, nil))
		return
	}

	ctx := c.Request.Context()
	opts := store.QueryOpts{Limit: limit}
	answers, err := s.eventRepo.QueryAnswerEvents(ctx, id, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	awards, err := s.eventRepo.QueryBadgeEvents(ctx, id, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	events, err := s.eventRepo.QuerySessionEvents(ctx, id, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	stats, err := s.eventRepo.AnswerStats(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newHistory(answers, awards, events, stats))
}
