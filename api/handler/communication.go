package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/pkg/httpcontext"
)

// CommunicationService reports and connects communication services.
type CommunicationService interface {
	Status(ctx context.Context) ([]domain.CommunicationActivity, error)
	ConnectService(service string) (string, error)
}

// CommunicationSyncer runs one sync outside the timer.
type CommunicationSyncer interface {
	SyncCommunications(ctx context.Context) ([]domain.CommunicationActivity, error)
}

type CommunicationHandler struct {
	baseHandler
	service CommunicationService
	syncer  CommunicationSyncer
}

func NewCommunicationHandler(service CommunicationService, syncer CommunicationSyncer, adapter *httpcontext.Adapter, logger *zap.Logger) *CommunicationHandler {
	return &CommunicationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		service:     service,
		syncer:      syncer,
	}
}

// @Summary Latest activity per service
// @Tags communication
// @Router /api/v1/communication [get]
func (h *CommunicationHandler) Status(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.service.Status(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nonNil(activity))
}

// @Summary Connection guidance for a service
// @Tags communication
// @Router /api/v1/communication/{service}/connect [post]
func (h *CommunicationHandler) Connect(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	message, err := h.service.ConnectService(pathID(ctx, "service"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": message})
}

// @Summary Sync every enabled service now
// @Tags communication
// @Router /api/v1/communication/sync [post]
func (h *CommunicationHandler) Sync(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.syncer.SyncCommunications(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nonNil(activity))
}
