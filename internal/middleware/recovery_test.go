package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/pkg"
)

func setupRecoveryRouter(buf *bytes.Buffer) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewTextHandler(buf, nil))))
	r.GET("/panic", func(c *gin.Context) {
		panic("template exploded")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRecovery_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	w := serve(setupRecoveryRouter(&buf), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestRecovery_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := serve(setupRecoveryRouter(&buf), httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Code != http.StatusInternalServerError || resp.Message != "internal server error" {
		t.Errorf("envelope = %+v", resp)
	}

	out := buf.String()
	for _, want := range []string{"panic recovered", "template exploded", "path=/panic", "stack="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRecovery_HTMLFallbackWithoutRenderer(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := serve(setupRecoveryRouter(&buf), req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "500") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestRecovery_HTMXToast(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Accept", "text/html")
	w := serve(setupRecoveryRouter(&buf), req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q, want none", w.Header().Get("HX-Reswap"))
	}
	if !strings.Contains(w.Header().Get("HX-Trigger"), "showToast") {
		t.Errorf("HX-Trigger = %q", w.Header().Get("HX-Trigger"))
	}
}
