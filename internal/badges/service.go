package badges

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/progress"
	"github.com/abhisek/wallstreet101/internal/store"
)

// Award is a badge granted during a session.
type Award struct {
	Badge     catalog.Badge
	SessionID string
	AwardedAt time.Time
}

// Observer is notified of every award. The HTTP server uses it for metrics.
type Observer func(Award)

// Service evaluates badges and journals awards.
type Service struct {
	eventRepo store.EventRepo
	logger    *zap.Logger
	now       func() time.Time
	observers []Observer
}

// NewService creates a badge service. eventRepo may be nil.
func NewService(eventRepo store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the award timestamp source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Observe registers fn to receive every future award.
func (s *Service) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// Evaluate runs the rules against p and records each new award.
func (s *Service) Evaluate(ctx context.Context, sessionID string, p *progress.Progress, cat *catalog.Catalog) []Award {
	ids := Evaluate(p, cat)
	if len(ids) == 0 {
		return nil
	}

	at := s.now()
	awards := make([]Award, 0, len(ids))
	for _, id := range ids {
		award := Award{Badge: catalog.BadgeFor(id), SessionID: sessionID, AwardedAt: at}
		s.persist(ctx, award)
		s.logger.Info("badge awarded",
			zap.String("session_id", sessionID),
			zap.String("badge", string(id)),
		)
		for _, fn := range s.observers {
			fn(award)
		}
		awards = append(awards, award)
	}
	return awards
}

func (s *Service) persist(ctx context.Context, award Award) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendBadgeEvent(ctx, store.BadgeEventData{
		SessionID: award.SessionID,
		Timestamp: award.AwardedAt,
		BadgeID:   string(award.Badge.ID),
	})
	if err != nil {
		s.logger.Warn("journal badge award", zap.Error(err), zap.String("badge", string(award.Badge.ID)))
	}
}
