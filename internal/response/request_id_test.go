package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(t *testing.T, router *gin.Engine, headerID string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if headerID != "" {
		req.Header.Set("X-Request-ID", headerID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	rec, body := doRequest(t, requestIDRouter(), "retry-7f3a")

	assert.Equal(t, "retry-7f3a", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "retry-7f3a", body.Metadata.RequestID)
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	rec, body := doRequest(t, requestIDRouter(), "")

	id := rec.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, body.Metadata.RequestID)
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	oversized := strings.Repeat("x", maxRequestIDLength+1)
	rec, body := doRequest(t, requestIDRouter(), oversized)

	id := rec.Header().Get("X-Request-ID")
	assert.NotEqual(t, oversized, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, body.Metadata.RequestID)
}
