package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/analyzer"
	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/quiz"
	"github.com/abhisek/wallstreet101/internal/whatif"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// errBadRequest marks malformed input that is not a validation failure.
var errBadRequest = errors.New("bad request")

var (
	notFound = []error{
		errSessionNotFound,
		catalog.ErrModuleNotFound,
		analyzer.ErrNoData,
		whatif.ErrInvalidSymbol,
		whatif.ErrNoData,
	}
	outOfRange = []error{
		catalog.ErrCardNotFound,
		catalog.ErrFactNotFound,
		catalog.ErrTierNotFound,
		quiz.ErrTierOutOfRange,
		quiz.ErrOptionOutOfRange,
	}
	conflict = []error{
		quiz.ErrNoActiveQuiz,
		quiz.ErrQuizMismatch,
		quiz.ErrNotPending,
		quiz.ErrNotPassed,
		quiz.ErrNotFailed,
		quiz.ErrNoMoreTiers,
		quiz.ErrCardLocked,
		quiz.ErrLastCard,
		quiz.ErrFirstCard,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	var (
		verrs  validator.ValidationErrors
		before *whatif.BeforeFirstTradeError
	)
	switch {
	case errors.As(err, &verrs), errors.Is(err, errBadRequest), errors.Is(err, whatif.ErrInvalidAmount):
		return http.StatusBadRequest
	case isAny(err, notFound):
		return http.StatusNotFound
	case errors.As(err, &before), isAny(err, outOfRange):
		return http.StatusUnprocessableEntity
	case isAny(err, conflict):
		return http.StatusConflict
	case errors.Is(err, market.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Message: http.StatusText(status), Details: err.Error()}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		resp.Details = ""
	}
	c.AbortWithStatusJSON(status, resp)
}
