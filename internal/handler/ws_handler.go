package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/middleware"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/session"
	ws "github.com/simuconcursos/simulado-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
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

// WSHandler streams the live state of a practice session.
type WSHandler struct {
	practiceService *service.PracticeService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(practiceService *service.PracticeService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		practiceService: practiceService,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// PracticeStream godoc
// WS /ws/v1/practice/stream
// Upgrades to WebSocket and pushes a countdown tick every second while the
// session is in progress. The client can answer, navigate and finalize over
// the same connection. The stream closes once the session enters review, or
// when the session is aborted or replaced over the HTTP API.
func (h *WSHandler) PracticeStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess, err := h.practiceService.Get(claims.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("session_id", sess.ID().String()).
		Logger()
	wsLog.Info().Msg("Candidate connected")

	done := make(chan struct{})
	go h.readLoop(conn, sess, wsLog, done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			// The socket holds a reference to the session it started with;
			// an abort or a replacement session over HTTP orphans it.
			if current, err := h.practiceService.Get(claims.UserID); err != nil || current != sess {
				wsLog.Info().Msg("Session aborted or replaced, closing stream")
				conn.WriteClose(websocket.CloseNormalClosure, "session closed")
				return
			}
			if err := conn.WriteTyped(h.tick(sess, now)); err != nil {
				wsLog.Debug().Msg("Connection closed")
				return
			}
			if sess.Phase() == session.PhaseReviewing {
				wsLog.Info().Msg("Session finalized, closing stream")
				conn.WriteClose(websocket.CloseNormalClosure, "reviewing")
				return
			}
		}
	}
}

func (h *WSHandler) tick(sess *session.Session, now time.Time) ws.TickResponse {
	return ws.TickResponse{
		Event:            ws.EventTick,
		Phase:            string(sess.Phase()),
		Index:            sess.Current(),
		RemainingSeconds: int(sess.Remaining(now).Seconds()),
		Answered:         len(sess.AnsweredIndices()),
	}
}

// readLoop services client actions until the connection drops.
func (h *WSHandler) readLoop(conn *ws.Conn, sess *session.Session, wsLog zerolog.Logger, done chan<- struct{}) {
	defer close(done)

	for {
		var envelope ws.RequestEnvelope
		raw, err := conn.ReadRaw(&envelope)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch envelope.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, sess, raw)
		case ws.ActionNavigate:
			h.handleNavigate(conn, sess, raw)
		case ws.ActionFinalize:
			h.handleFinalize(conn, sess)
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(envelope.Action))
		}
	}
}

func (h *WSHandler) handleAnswer(conn *ws.Conn, sess *session.Session, raw []byte) {
	var req ws.AnswerRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.Label == "" {
		conn.WriteError("index and label are required")
		return
	}

	if _, err := sess.RecordAnswer(req.Index, req.Label); err != nil {
		conn.WriteError(err.Error())
		return
	}

	view, err := sess.Projection(req.Index)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	conn.WriteTyped(ws.QuestionResponse{Event: ws.EventQuestion, Question: view})
}

func (h *WSHandler) handleNavigate(conn *ws.Conn, sess *session.Session, raw []byte) {
	var req ws.NavigateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		conn.WriteError("invalid navigate payload")
		return
	}

	dir := session.DirectionNext
	if req.Direction == string(session.DirectionPrevious) {
		dir = session.DirectionPrevious
	}
	index := sess.Advance(dir)

	view, err := sess.Projection(index)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	conn.WriteTyped(ws.QuestionResponse{Event: ws.EventQuestion, Question: view})
}

func (h *WSHandler) handleFinalize(conn *ws.Conn, sess *session.Session) {
	score, first := sess.Finalize()
	if first {
		h.practiceService.QueueAttempt(context.Background(), sess, score)
	}

	conn.WriteTyped(ws.FinalizedResponse{
		Event:      ws.EventFinalized,
		Correct:    score.Correct,
		Answered:   score.Answered,
		Total:      score.Total,
		Percentage: score.Percentage,
	})
}
