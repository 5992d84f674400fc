package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/swipekick/backend/internal/config"
)

func TestWebSocketOrigins(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production", FrontendURL: "https://play.example.com"}

	tests := []struct {
		cfg    *config.Config
		origin string
		want   bool
	}{
		{dev, "http://localhost:3000", true},
		{dev, "http://127.0.0.1:5173", true},
		{dev, "https://evil.example.com", false},
		{dev, "", false},
		{prod, "https://play.example.com", true},
		{prod, "http://localhost:5173", false},
	}
	for _, tt := range tests {
		if got := IsAllowedWebSocketOrigin(tt.cfg, tt.origin); got != tt.want {
			t.Errorf("%s origin %q: expected %v, got %v", tt.cfg.Environment, tt.origin, tt.want, got)
		}
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(&config.Config{Environment: "production", FrontendURL: "https://play.example.com"}), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(origin string, upgrade bool) int {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if upgrade {
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("", false); code != http.StatusNoContent {
		t.Errorf("plain requests pass through, got %d", code)
	}
	if code := do("", true); code != http.StatusBadRequest {
		t.Errorf("missing origin should be rejected, got %d", code)
	}
	if code := do("https://other.example.com", true); code != http.StatusForbidden {
		t.Errorf("foreign origin should be forbidden, got %d", code)
	}
	if code := do("https://play.example.com", true); code != http.StatusNoContent {
		t.Errorf("frontend origin should pass, got %d", code)
	}
}

func TestAllowedOriginsIncludesFrontend(t *testing.T) {
	got := AllowedOrigins(&config.Config{Environment: "development", FrontendURL: "http://localhost:4000"})
	if !contains(got, "http://localhost:4000") || !contains(got, "http://localhost:5173") {
		t.Errorf("unexpected dev origins: %v", got)
	}
	if got := AllowedOrigins(&config.Config{Environment: "production"}); len(got) != 0 {
		t.Errorf("production without frontend should allow nothing, got %v", got)
	}
}
