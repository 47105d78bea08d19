package router

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saulmartinx/wolk/internal/api/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(CORSMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newMiddlewareRouter()

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(requestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagates caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "req-123", w.Body.String())
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := newMiddlewareRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// accessLogEntries returns the decoded "HTTP Request" records written to buf
func accessLogEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(buf.String()))
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["msg"] == "HTTP Request" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(slog.New(slog.NewJSONHandler(&buf, nil))))
	r.POST("/payments/:payment_id", func(c *gin.Context) {
		c.Set(handler.ContextKeyPaymentID, c.Param("payment_id"))
		c.Status(http.StatusBadGateway)
	})
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("server error carries domain ids", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/payments/P1?x=1", nil)
		req.Header.Set(requestIDHeader, "req-7")
		r.ServeHTTP(httptest.NewRecorder(), req)

		entries := accessLogEntries(t, &buf)
		require.Len(t, entries, 1)
		entry := entries[0]
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "P1", entry["payment_id"])
		assert.Equal(t, "req-7", entry["request_id"])
		assert.Equal(t, "/payments/:payment_id", entry["route"])
		assert.Equal(t, "x=1", entry["query"])
		assert.EqualValues(t, http.StatusBadGateway, entry["status"])
	})

	t.Run("unset ids are omitted", func(t *testing.T) {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

		entries := accessLogEntries(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "INFO", entries[0]["level"])
		assert.NotContains(t, entries[0], "payment_id")
		assert.NotContains(t, entries[0], "job_id")
	})
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelForStatus(http.StatusOK))
	assert.Equal(t, slog.LevelInfo, levelForStatus(http.StatusNoContent))
	assert.Equal(t, slog.LevelWarn, levelForStatus(http.StatusNotFound))
	assert.Equal(t, slog.LevelError, levelForStatus(http.StatusServiceUnavailable))
}
