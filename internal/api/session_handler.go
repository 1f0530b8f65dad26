package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/models"
)

// SessionHandler streams the caller's session state as server-sent events.
type SessionHandler struct {
	broker    *core.SessionBroker
	heartbeat time.Duration
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(broker *core.SessionBroker, heartbeat time.Duration) *SessionHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &SessionHandler{broker: broker, heartbeat: heartbeat}
}

// Stream handles GET /session/stream. It sends the current session first,
// then every change until the client disconnects or signs out.
func (h *SessionHandler) Stream(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}

	events, unsubscribe := h.broker.Subscribe(p.UID)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("session", models.SessionEvent{
		Type:      models.SessionSignedIn,
		UserID:    p.UID,
		Anonymous: p.Anonymous,
		At:        time.Now().UTC(),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			c.SSEvent("session", ev)
			c.Writer.Flush()
			if ev.Type == models.SessionSignedOut {
				return
			}
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}
