package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/bidflow/bidflow-api/internal/service"
)

const feedKeepAliveInterval = 15 * time.Second

// ActivityFeedHandler streams pipeline stage changes to connected clients as
// server-sent events.
type ActivityFeedHandler struct {
	events service.PipelineEventService
	logger zerolog.Logger
}

// NewActivityFeedHandler constructs the handler.
func NewActivityFeedHandler(events service.PipelineEventService, logger zerolog.Logger) *ActivityFeedHandler {
	return &ActivityFeedHandler{
		events: events,
		logger: logger.With().Str("component", "activity_feed_handler").Logger(),
	}
}

// Register attaches the event stream endpoint.
func (h *ActivityFeedHandler) Register(router fiber.Router) {
	router.Get("/pipeline", h.stream)
}

func (h *ActivityFeedHandler) stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	events, cancel := h.events.Subscribe()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepAlive := time.NewTicker(feedKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					h.logger.Warn().Err(err).Msg("failed to encode feed event")
					continue
				}
				if _, err := fmt.Fprintf(w, "event: transition\ndata: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
