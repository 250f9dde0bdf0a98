package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/service"
	sess "github.com/spakle/amarquiz-backend/internal/session"
	ws "github.com/spakle/amarquiz-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live session over WebSocket: countdown ticks flow out,
// answer/submit actions flow in.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:session_id/stream
// Streams countdown ticks and accepts answer/submit actions.
func (h *WSHandler) SessionStream(c *gin.Context) {
	sessionID := c.Param("session_id")
	if _, err := h.sessionService.Get(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID).Logger()
	wsLog.Info().Msg("Session stream connected")

	done := make(chan struct{})
	defer close(done)
	go h.pushTicks(conn, sessionID, done)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, sessionID, &msg)
		case ws.ActionSubmit:
			h.handleSubmit(conn, wsLog, sessionID)
		case ws.ActionPing:
			_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			_ = ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// pushTicks forwards the countdown once a second until the session closes or
// the client goes away.
func (h *WSHandler) pushTicks(conn *websocket.Conn, sessionID string, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			state, err := h.sessionService.State(sessionID)
			if err != nil {
				return
			}
			if err := ws.WriteTyped(conn, ws.TickResponse{
				Event:            ws.EventTick,
				Status:           string(state.Status),
				RemainingSeconds: state.RemainingSeconds,
			}); err != nil {
				return
			}
			if state.Status == sess.StatusClosed {
				return
			}
		}
	}
}

func (h *WSHandler) handleAnswer(conn *websocket.Conn, sessionID string, msg *ws.RequestPayload) {
	if msg.QuestionID == "" || msg.OptionIndex < 0 {
		_ = ws.WriteError(conn, "question_id and option_index are required")
		return
	}

	if err := h.sessionService.Answer(sessionID, msg.QuestionID, msg.OptionIndex); err != nil {
		_ = ws.WriteError(conn, err.Error())
		return
	}
	_ = ws.WriteTyped(conn, ws.SavedResponse{Event: ws.EventSaved, QuestionID: msg.QuestionID})
}

func (h *WSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := h.sessionService.Submit(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sess.ErrSubmissionInFlight) {
			_ = ws.WriteError(conn, "submission already in progress")
			return
		}
		wsLog.Error().Err(err).Msg("Submit over stream failed")
		_ = ws.WriteError(conn, "submit failed")
		return
	}

	_ = ws.WriteTyped(conn, ws.SubmittedResponse{
		Event:  ws.EventSubmitted,
		Auto:   sub.IsAuto,
		Totals: sub.Totals,
	})
}
