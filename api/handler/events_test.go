package handler

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/productivity/internal/events"
)

func TestWriteEventFraming(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	at := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, writeEvent(w, events.Event{Name: events.InsightsUpdated, Payload: []string{"tip"}, At: at}))
	assert.Equal(t,
		"event: insights_updated\ndata: {\"event\":\"insights_updated\",\"payload\":[\"tip\"],\"at\":\"2024-05-10T09:00:00Z\"}\n\n",
		buf.String())

	buf.Reset()
	require.NoError(t, writeComment(w, "ping"))
	assert.Equal(t, ": ping\n\n", buf.String())
}

func TestStreamSetsEventStreamHeaders(t *testing.T) {
	bus := events.NewBus(nil)
	h := NewEventsHandler(bus, 4, time.Second, nil)
	defer h.Close()

	ctx := &fasthttp.RequestCtx{}
	h.Stream(ctx)

	assert.Equal(t, "text/event-stream", string(ctx.Response.Header.ContentType()))
	assert.Equal(t, "no-cache", string(ctx.Response.Header.Peek("Cache-Control")))
	assert.True(t, ctx.Response.IsBodyStream())
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewEventsHandler(events.NewBus(nil), 0, 0, nil)
	h.Close()
	h.Close()
	select {
	case <-h.done:
	default:
		t.Fatal("done channel not closed")
	}
}
