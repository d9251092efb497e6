package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestHandlerForwardsPathAndQuery(t *testing.T) {
	var gotMethod, gotURL, gotBody, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURL = r.URL.RequestURI()
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"busy"}`))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/planner/*", NewUpstream(upstream.URL, time.Second).Handler("/api/v1/planner"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/planner/sessions/abc/click?trace=1", strings.NewReader(`{"x":1,"y":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if gotMethod != http.MethodPost || gotURL != "/sessions/abc/click?trace=1" {
		t.Errorf("upstream got %s %s", gotMethod, gotURL)
	}
	if gotBody != `{"x":1,"y":2}` || gotType != "application/json" {
		t.Errorf("upstream body %q type %q", gotBody, gotType)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if string(data) != `{"error":"busy"}` {
		t.Errorf("body = %s", data)
	}
}

func TestHandlerUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	app.All("/p/*", NewUpstream(url, time.Second).Handler("/p"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/p/sessions", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestPing(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" || !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	}))
	defer upstream.Close()

	u := NewUpstream(upstream.URL+"/", time.Second)
	if err := u.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	ready.Store(false)
	if err := u.Ping(context.Background()); err == nil {
		t.Fatal("expected error from unready upstream")
	}
}
