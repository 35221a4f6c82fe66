package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
	"github.com/simuconcursos/simulado-backend/internal/response"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/validator"
)

// ExamHandler handles the exam and position catalog endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// ListExams godoc
// GET /api/v1/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.ListExams(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// ListPositions godoc
// GET /api/v1/exams/:id/positions
func (h *ExamHandler) ListPositions(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	positions, err := h.examService.ListPositions(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"positions": positions})
}

// CreateExam godoc
// POST /api/v1/admin/exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam := model.Exam{Name: req.Name}
	if err := h.examService.CreateExam(c.Request.Context(), &exam); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// CreatePosition godoc
// POST /api/v1/admin/exams/:id/positions
func (h *ExamHandler) CreatePosition(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreatePositionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	position := model.Position{ExamID: examID, Name: req.Name}
	if err := h.examService.CreatePosition(c.Request.Context(), &position); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"position": position})
}

// DeleteExam godoc
// DELETE /api/v1/admin/exams/:id
// Positions under the exam are removed; their questions fall back to the
// general bank.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	examID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.examService.DeleteExam(c.Request.Context(), examID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// DeletePosition godoc
// DELETE /api/v1/admin/positions/:id
func (h *ExamHandler) DeletePosition(c *gin.Context) {
	positionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.examService.DeletePosition(c.Request.Context(), positionID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
