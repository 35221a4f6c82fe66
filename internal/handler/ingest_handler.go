package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simuconcursos/simulado-backend/internal/response"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/validator"
)

// IngestHandler handles the harvested-content ingestion endpoints.
type IngestHandler struct {
	ingestService *service.IngestService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

// Ingest godoc
// POST /api/v1/admin/ingest
// Runs raw harvested blobs through extraction, adaptation and deduplicated
// insertion. Duplicates and malformed blocks are counted, not failed.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req service.IngestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	report := h.ingestService.IngestBlobs(c.Request.Context(), req)
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// Backfill godoc
// POST /api/v1/admin/ingest/backfill
// Computes fingerprints for questions stored before fingerprinting existed.
func (h *IngestHandler) Backfill(c *gin.Context) {
	updated, err := h.ingestService.Backfill(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// ResolveDuplicates godoc
// POST /api/v1/admin/ingest/resolve-duplicates
// Collapses fingerprint collision groups, preferring harvested copies.
func (h *IngestHandler) ResolveDuplicates(c *gin.Context) {
	removed, err := h.ingestService.ResolveDuplicates(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}
