package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/pkg/httpcontext"
	"github.com/fastygo/productivity/usecase/insight"
)

const defaultHistoryLimit = 20

// InsightSource is the read side of the Task Store used by insight endpoints.
type InsightSource interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error)
}

// InsightGenerator produces insights on demand.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, tasks []domain.Task) insight.Insights
}

// AccountabilityRunner runs one accountability check outside the timer.
type AccountabilityRunner interface {
	AccountabilityCheck(ctx context.Context) (insight.Accountability, error)
}

type InsightHandler struct {
	baseHandler
	source         InsightSource
	generator      InsightGenerator
	accountability AccountabilityRunner
}

func NewInsightHandler(source InsightSource, generator InsightGenerator, accountability AccountabilityRunner, adapter *httpcontext.Adapter, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		baseHandler:    newBaseHandler(adapter, logger),
		source:         source,
		generator:      generator,
		accountability: accountability,
	}
}

// @Summary Generate insights from the current tasks
// @Tags insights
// @Router /api/v1/insights [get]
func (h *InsightHandler) GetInsights(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.source.ListTasks(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.generator.GenerateInsights(stdCtx, tasks))
}

// @Summary Previously stored insights, newest first
// @Tags insights
// @Router /api/v1/insights/history [get]
func (h *InsightHandler) GetHistory(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), defaultHistoryLimit)
	items, err := h.source.RecentInsights(stdCtx, limit)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nonNil(items))
}

// @Summary Run an accountability check now
// @Tags insights
// @Router /api/v1/accountability/check [post]
func (h *InsightHandler) TriggerAccountability(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.accountability.AccountabilityCheck(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}
