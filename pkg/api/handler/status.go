package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redpaw/redpaw/pkg/api/response"
	"github.com/redpaw/redpaw/pkg/logger"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type BalanceProvider interface {
	GetBalanceMessage(ctx context.Context) (string, error)
}

type status struct {
	db        Pinger
	balance   BalanceProvider
	startedAt time.Time
	writer    response.JSONResponseWriter
}

// NewStatus builds the operator status handler. balance may be nil when no
// hosting API token is configured.
func NewStatus(db Pinger, balance BalanceProvider) *status {
	return &status{
		db:        db,
		balance:   balance,
		startedAt: time.Now(),
	}
}

func (s *status) Show(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"uptime":   time.Since(s.startedAt).Round(time.Second).String(),
		"database": "ok",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		slog.ErrorContext(r.Context(), "Database ping failed", logger.Err(err))
		s.writer.WriteErrorResponse(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	if s.balance != nil {
		msg, err := s.balance.GetBalanceMessage(ctx)
		if err != nil {
			slog.WarnContext(r.Context(), "Fetching hosting balance", logger.Err(err))
			res["balance"] = "unavailable"
		} else {
			res["balance"] = msg
		}
	}

	s.writer.WriteSuccessResponse(w, res)
}
