package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/logger"
	"context"
	"net/http"
	"time"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler returns a health handler. db may be nil when the ledger
// runs on the in-memory store.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck godoc
// @Summary      Show the status of server
// @Description  Reports whether the API and, when configured, its database are reachable.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h != nil && h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.Log.WithError(err).Error("Health check failed to reach the database")
			common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "API is healthy and running"})
}
