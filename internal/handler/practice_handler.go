package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/simuconcursos/simulado-backend/internal/middleware"
	"github.com/simuconcursos/simulado-backend/internal/response"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/session"
	"github.com/simuconcursos/simulado-backend/internal/validator"
)

// PracticeHandler handles the practice session endpoints.
type PracticeHandler struct {
	practiceService *service.PracticeService
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

// ListSubjects godoc
// GET /api/v1/practice/subjects?position_id=
// Returns the subjects available for session configuration, optionally
// scoped to a position's question bank.
func (h *PracticeHandler) ListSubjects(c *gin.Context) {
	var positionID *int
	if raw := c.Query("position_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		positionID = &id
	}

	subjects, err := h.practiceService.ListSubjects(c.Request.Context(), positionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Start godoc
// POST /api/v1/practice/sessions
// Samples the submitted quota configuration and opens a session, replacing
// any previous one.
func (h *PracticeHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req service.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.practiceService.Start(c.Request.Context(), claims.UserID, claims.Premium, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPremiumRequired):
			response.Fail(c, http.StatusForbidden, response.ErrPremiumRequired)
		case errors.Is(err, session.ErrEmptyConfiguration):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyConfiguration)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"session": h.practiceService.Summary(sess),
	})
}

// State godoc
// GET /api/v1/practice/sessions/current
// Returns the lightweight state of the active session.
func (h *PracticeHandler) State(c *gin.Context) {
	sess, ok := h.activeSession(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": h.practiceService.Summary(sess),
	})
}

// Question godoc
// GET /api/v1/practice/sessions/current/question?index=
// Returns the rendering projection of a question. Without an index it
// projects the current one. With answered_only=true the index addresses the
// answered sub-list, backing the review-only-answered view.
func (h *PracticeHandler) Question(c *gin.Context) {
	sess, ok := h.activeSession(c)
	if !ok {
		return
	}

	index := sess.Current()
	if raw := c.Query("index"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
			return
		}
		index = i
	}

	if c.Query("answered_only") == "true" {
		answered := sess.AnsweredIndices()
		if index < 0 || index >= len(answered) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
			return
		}
		index = answered[index]
	}

	view, err := sess.Projection(index)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": view})
}

// AnswerRequest is the payload for recording an answer.
type AnswerRequest struct {
	Index int    `json:"index" binding:"min=0"`
	Label string `json:"label" binding:"required,oneof=A B C D E"`
}

// Answer godoc
// POST /api/v1/practice/sessions/current/answers
// Records an answer in the write-once ledger. Re-answering an index is
// reported as not recorded rather than failed.
func (h *PracticeHandler) Answer(c *gin.Context) {
	sess, ok := h.activeSession(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	recorded, err := sess.RecordAnswer(req.Index, req.Label)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrReadOnlyState):
			response.Fail(c, http.StatusConflict, response.ErrSessionReadOnly)
		case errors.Is(err, session.ErrInvalidIndex):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"recorded": recorded})
}

// NavigateRequest moves the session cursor.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"omitempty,oneof=next previous"`
	Index     *int   `json:"index" binding:"omitempty,min=0"`
}

// Navigate godoc
// POST /api/v1/practice/sessions/current/navigate
// Moves the cursor by direction or jumps to an index.
func (h *PracticeHandler) Navigate(c *gin.Context) {
	sess, ok := h.activeSession(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if req.Index != nil {
		if err := sess.Goto(*req.Index); err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
			return
		}
	} else {
		dir := session.DirectionNext
		if req.Direction == string(session.DirectionPrevious) {
			dir = session.DirectionPrevious
		}
		sess.Advance(dir)
	}

	response.Success(c, http.StatusOK, gin.H{
		"session": h.practiceService.Summary(sess),
	})
}

// Finalize godoc
// POST /api/v1/practice/sessions/current/finalize
// Closes the session, freezes the score and enters review.
func (h *PracticeHandler) Finalize(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	score, err := h.practiceService.Finalize(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"score": score})
}

// Abort godoc
// DELETE /api/v1/practice/sessions/current
// Destroys the session without recording an attempt.
func (h *PracticeHandler) Abort(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.practiceService.Abort(claims.UserID)
	response.Success(c, http.StatusOK, gin.H{})
}

// activeSession resolves the caller's session or fails the request.
func (h *PracticeHandler) activeSession(c *gin.Context) (*session.Session, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}

	sess, err := h.practiceService.Get(claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return nil, false
	}
	return sess, true
}
