package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/api/transport"
	"github.com/fastygo/productivity/internal/infrastructure/monitor"
	"github.com/fastygo/productivity/pkg/httpcontext"
)

// HealthReporter exposes the latest dependency snapshot.
type HealthReporter interface {
	GetStatus() monitor.Status
	IsHealthy() bool
}

type HealthHandler struct {
	baseHandler
	monitor HealthReporter
	now     func() time.Time
}

func NewHealthHandler(mon HealthReporter, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		now:         time.Now,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": h.now().UTC(),
		"services":  status,
	}

	if h.monitor.IsHealthy() {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError(transport.CodeDegraded, "dependencies unhealthy", payload))
}
