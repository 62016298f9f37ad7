package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/internal/events"
)

// Subscriber hands out event streams.
type Subscriber interface {
	Subscribe(buffer int) (<-chan events.Event, func())
}

// EventsHandler streams bus events to clients as server-sent events.
type EventsHandler struct {
	bus       Subscriber
	buffer    int
	heartbeat time.Duration
	logger    *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func NewEventsHandler(bus Subscriber, buffer int, heartbeat time.Duration, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &EventsHandler{
		bus:       bus,
		buffer:    buffer,
		heartbeat: heartbeat,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Close ends every open stream. fasthttp waits for stream writers during Shutdown,
// so this has to run first.
func (h *EventsHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// @Summary Live event stream
// @Tags events
// @Router /api/v1/events [get]
func (h *EventsHandler) Stream(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")
	ctx.SetStatusCode(fasthttp.StatusOK)

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		stream, unsubscribe := h.bus.Subscribe(h.buffer)
		defer unsubscribe()

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		if err := writeComment(w, "connected"); err != nil {
			return
		}
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				if err := writeComment(w, "ping"); err != nil {
					return
				}
			case evt, ok := <-stream:
				if !ok {
					return
				}
				if err := writeEvent(w, evt); err != nil {
					h.logger.Debug("event stream closed", zap.Error(err))
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, evt events.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
