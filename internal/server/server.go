// Package server exposes learning sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/analyzer"
	"github.com/abhisek/wallstreet101/internal/badges"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/config"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/session"
	"github.com/abhisek/wallstreet101/internal/store"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
}

// Deps are the collaborators of a Server.
type Deps struct {
	Config  config.ServerConfig
	Catalog *catalog.Catalog
	Market  market.Provider

	// EventRepo journals session activity. Nil disables the journal.
	EventRepo store.EventRepo
	Logger    *zap.Logger

	// Cache, when set, is swept by the janitor alongside idle sessions.
	Cache Sweeper

	// Now overrides the clock of sessions and the janitor.
	Now func() time.Time
}

// Server is the HTTP API.
type Server struct {
	cfg       config.ServerConfig
	cat       *catalog.Catalog
	market    market.Provider
	analyzer  *analyzer.Analyzer
	whatif    *whatif.Calculator
	eventRepo store.EventRepo
	badges    *badges.Service
	cache     Sweeper
	logger    *zap.Logger
	now       func() time.Time

	sessions  *registry
	metrics   *metrics
	validate  *validator.Validate
	engine    *gin.Engine
	scheduler *gocron.Scheduler
}

// New builds a server and its routes.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Config.Mode != "" {
		gin.SetMode(d.Config.Mode)
	}

	s := &Server{
		cfg:       d.Config,
		cat:       d.Catalog,
		market:    d.Market,
		analyzer:  analyzer.New(d.Market),
		whatif:    whatif.NewCalculator(d.Market),
		eventRepo: d.EventRepo,
		badges:    badges.NewService(d.EventRepo, d.Logger),
		cache:     d.Cache,
		logger:    d.Logger,
		now:       d.Now,
		sessions:  newRegistry(),
		metrics:   newMetrics(),
		validate:  validator.New(),
		scheduler: gocron.NewScheduler(time.UTC),
	}
	s.badges.SetClock(d.Now)
	s.badges.Observe(s.metrics.observeAward)
	s.whatif.SetClock(d.Now)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.accessLog())
	if d.Config.Metrics {
		s.engine.Use(s.metrics.middleware())
		s.engine.GET("/metrics", s.metrics.handler())
	}
	s.registerRoutes(s.engine.Group("/api/v1"))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	api.GET("/health", s.health)

	cat := api.Group("/catalog")
	{
		cat.GET("/modules", s.listModules)
		cat.GET("/modules/:slug", s.getModule)
		cat.GET("/modules/:slug/cards/:index", s.getCard)
		cat.GET("/badges", s.listBadges)
		cat.GET("/funds", s.listFunds)
		cat.GET("/facts", s.listFacts)
	}

	api.POST("/sessions", s.createSession)
	sess := api.Group("/sessions/:id")
	{
		sess.GET("", s.getSession)
		sess.DELETE("", s.endSession)
		sess.POST("/reset", s.resetSession)
		sess.PUT("/module", s.selectModule)
		sess.POST("/cards/next", s.nextCard)
		sess.POST("/cards/prev", s.prevCard)

		sess.POST("/quiz", s.startQuiz)
		sess.GET("/quiz", s.getQuiz)
		sess.DELETE("/quiz", s.leaveQuiz)
		sess.POST("/quiz/answer", s.answerQuiz)
		sess.POST("/quiz/retry", s.retryQuiz)
		sess.POST("/quiz/next-tier", s.nextTier)

		sess.GET("/charts/:symbol", s.chart)
		sess.POST("/analyzer", s.analyze)
		sess.POST("/whatif", s.calculate)
		sess.GET("/facts/random", s.randomFact)
		sess.POST("/facts/:index/try", s.tryFact)
		sess.GET("/funds", s.funds)
		sess.GET("/history", s.history)
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) newSession() *session.Session {
	return session.New(s.cat,
		session.WithEventRepo(s.eventRepo),
		session.WithLogger(s.logger),
		session.WithClock(s.now),
		session.WithBadgeService(s.badges),
	)
}

// sweepIdle evicts sessions idle longer than the configured limit.
func (s *Server) sweepIdle(ctx context.Context) {
	ids := s.sessions.sweep(ctx, s.now().Add(-s.cfg.SessionIdle))
	s.metrics.activeSessions.Set(float64(s.sessions.len()))
	dropped := 0
	if s.cache != nil {
		dropped = s.cache.Sweep()
	}
	if len(ids) > 0 || dropped > 0 {
		s.logger.Info("janitor sweep",
			zap.Strings("evicted_sessions", ids),
			zap.Int("expired_cache_entries", dropped),
		)
	}
}

// StartJanitor schedules the idle sweep. Stop it with StopJanitor.
func (s *Server) StartJanitor(ctx context.Context) error {
	interval := s.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	if _, err := s.scheduler.Every(interval).Do(s.sweepIdle, ctx); err != nil {
		return fmt.Errorf("schedule janitor: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// StopJanitor stops the idle sweep.
func (s *Server) StopJanitor() {
	s.scheduler.Stop()
}

// Run serves on cfg.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.StartJanitor(ctx); err != nil {
		return err
	}
	defer s.StopJanitor()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
