package heygen

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProxy_ForwardInjectsAPIKey(t *testing.T) {
	var gotKey, gotPath, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"token":"abc"}}`))
	}))
	defer upstream.Close()

	proxy := NewProxy(ProxyConfig{APIKey: "secret-key", BaseURL: upstream.URL})

	req := httptest.NewRequest(http.MethodPost, "/api/heygen/v1/streaming.new", strings.NewReader(`{"quality":"high"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	proxy.Forward(rec, req, "v1/streaming.new")

	if gotKey != "secret-key" {
		t.Fatalf("X-Api-Key が %q (想定: secret-key)", gotKey)
	}
	if gotPath != "/v1/streaming.new" {
		t.Fatalf("上流パスが %q", gotPath)
	}
	if gotBody != `{"quality":"high"}` {
		t.Fatalf("ボディが転送されていない: %q", gotBody)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("ステータスが %d (想定: 201)", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"token":"abc"`) {
		t.Fatalf("レスポンスが書き戻されていない: %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type が %q", got)
	}
}

func TestProxy_ForwardWithoutAPIKey(t *testing.T) {
	proxy := NewProxy(ProxyConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/heygen/v1/avatars", nil)
	rec := httptest.NewRecorder()

	proxy.Forward(rec, req, "v1/avatars")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ステータスが %d (想定: 503)", rec.Code)
	}
}

func TestProxy_ForwardUpstreamUnreachable(t *testing.T) {
	proxy := NewProxy(ProxyConfig{APIKey: "key", BaseURL: "http://127.0.0.1:1"})

	req := httptest.NewRequest(http.MethodGet, "/api/heygen/v1/avatars", nil)
	rec := httptest.NewRecorder()

	proxy.Forward(rec, req, "v1/avatars")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("ステータスが %d (想定: 502)", rec.Code)
	}
}
