package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const heartbeatInterval = 30 * time.Second

// EventsHandler streams change notifications over SSE
type EventsHandler struct {
	hub *services.SSEHub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *services.SSEHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream keeps an event stream open for the caller. An open stream also
// marks the caller online.
// @Summary Event stream
// @Description Emits invalidate, message and presence events. Pass the access token as `token` when cookies are unavailable.
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Param token query string false "Access token"
// @Success 200 {string} string "event stream"
// @Router /events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	client := &services.SSEClient{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		ChatID:  user.ChatID(),
		Channel: make(chan services.SSEEvent, 50),
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("X-Accel-Buffering", "no")

	var stream fasthttp.StreamWriter = func(w *bufio.Writer) {
		h.hub.Register(client)
		defer h.hub.Unregister(client.ID)

		writeSSEEvent(w, services.SSEEvent{Event: "connected", Data: fiber.Map{"clientId": client.ID}})
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSSEEvent(w, event)
				if err := w.Flush(); err != nil {
					logger.Log.Debug().Str("client", client.ID).Msg("📡 SSE client disconnected")
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					logger.Log.Debug().Str("client", client.ID).Msg("📡 SSE client disconnected")
					return
				}
			}
		}
	}

	c.Context().SetBodyStreamWriter(stream)
	return nil
}

// writeSSEEvent writes one event frame with a JSON payload
func writeSSEEvent(w *bufio.Writer, event services.SSEEvent) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		logger.Log.Error().Err(err).Str("event", event.Event).Msg("❌ Failed to encode SSE event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
}
