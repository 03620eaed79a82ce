package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/usecase"
)

const (
	streamInterval  = 500 * time.Millisecond
	streamWriteWait = 10 * time.Second
)

// WebSocketHandler streams a submission's state until it is terminal.
type WebSocketHandler struct {
	getUC    *usecase.GetSubmissionUsecase
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. Browser upgrades are
// accepted only from allowedOrigins; "*" accepts any origin.
func NewWebSocketHandler(getUC *usecase.GetSubmissionUsecase, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		getUC: getUC,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowAll || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// Stream handles GET /submission/:id/stream (WebSocket upgrade)
func (h *WebSocketHandler) Stream(c *gin.Context) {
	userID, ok := callerID(c, h.logger)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "Stream failed", domain.ErrSubmissionNotFound)
		return
	}

	// Resolve ownership before upgrading so errors are plain HTTP responses.
	ctx := c.Request.Context()
	sub, err := h.getUC.Execute(ctx, userID, id)
	if err != nil {
		writeError(c, h.logger, "Stream failed", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Drop the deadlines inherited from the HTTP server; a submission awaiting
	// rejudge can stay pending longer than the server's WriteTimeout.
	if err := conn.NetConn().SetDeadline(time.Time{}); err != nil {
		h.logger.Warn("Failed to clear WebSocket deadlines", zap.Error(err))
		return
	}

	log := h.logger.With(zap.String("submission_id", id.String()))
	log.Debug("WebSocket connection opened")

	send := func(v any) error {
		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(v)
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		if err := send(sub); err != nil {
			log.Debug("WebSocket write failed (client disconnected)", zap.Error(err))
			return
		}
		if sub.Status.IsTerminal() {
			log.Debug("Submission reached terminal state, closing WebSocket")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(sub.Status)),
				time.Now().Add(streamWriteWait))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sub, err = h.getUC.Execute(ctx, userID, id)
		if err != nil {
			log.Warn("Submission lookup failed during stream", zap.Error(err))
			_ = send(gin.H{"error": "Submission unavailable"})
			return
		}
	}
}
