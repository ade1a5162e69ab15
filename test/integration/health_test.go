package integration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/investplatform/admin-backend/internal/config"
	"github.com/investplatform/admin-backend/internal/server"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(_ context.Context) error {
	return p.err
}

func newBareRouter(pinger fakePinger) http.Handler {
	return server.NewRouter(config.Config{Env: "test", MaxRequestBodyBytes: 1 << 20}, slog.Default(), server.Dependencies{Pinger: pinger})
}

func TestHealthEndpoint(t *testing.T) {
	r := newBareRouter(fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReadyEndpointOK(t *testing.T) {
	r := newBareRouter(fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReadyEndpointDBFailure(t *testing.T) {
	r := newBareRouter(fakePinger{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r := newBareRouter(fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/v1/nowhere", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body struct {
		OK   bool `json:"ok"`
		Code int  `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.OK || body.Code != 404000 {
		t.Fatalf("unexpected failure envelope: %+v", body)
	}
}
