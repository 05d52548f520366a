package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestFail_500_LogsAndWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/api/schools", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to fetch schools")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schools", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Success || resp.RequestID != "rid-500" || resp.Code != ErrCodeListFailed || resp.Error != "Failed to fetch schools" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), `"code":"list_failed"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func TestFail_4xx_NotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})
	r.POST("/api/schools", func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, ErrCodeValidation, "All fields are required")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/schools", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx should not be logged here: %s", buf.String())
	}
	// request_id is omitted when no id was assigned.
	want := `{"success":false,"error":"All fields are required","code":"validation_failed"}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestOK_WritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/schools", func(c *gin.Context) {
		ok(c, http.StatusOK, ListSchoolsResponse{Success: true, Data: nil})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schools", nil))

	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"success":true,"data":null}` {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}
