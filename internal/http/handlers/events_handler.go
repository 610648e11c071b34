package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"shopfront/internal/events"
	applog "shopfront/internal/log"
)

type EventsHandler struct {
	Broker *events.Broker
	// Done ends every open stream, e.g. on server shutdown. Events already
	// queued for a stream are still written.
	Done      <-chan struct{}
	KeepAlive time.Duration
}

// GET /api/admin/events streams order-created events as server-sent events.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	sub, cancel := h.Broker.Subscribe()
	applog.Info(c, "events.subscribe", nil)

	// c is recycled once the handler returns; the writer only touches sub.
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if w.Flush() != nil {
			return
		}
		for {
			select {
			case e, ok := <-sub:
				if !ok {
					return
				}
				writeEvent(w, e)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			case <-h.Done:
				drain(w, sub)
				return
			}
			if w.Flush() != nil {
				// client went away
				return
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, e events.Event) {
	b, err := json.Marshal(e)
	if err != nil {
		applog.Error(nil, "events.encode.fail", err, map[string]any{"event": e.ID})
		return
	}
	fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, b)
}

func drain(w *bufio.Writer, sub <-chan events.Event) {
	for {
		select {
		case e, ok := <-sub:
			if !ok {
				_ = w.Flush()
				return
			}
			writeEvent(w, e)
		default:
			_ = w.Flush()
			return
		}
	}
}
