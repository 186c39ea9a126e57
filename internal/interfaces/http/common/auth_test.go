package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAuthenticator() *AdminAuthenticator {
	return NewAdminAuthenticator("static-admin-token", "test-issuer", []byte("test-secret"), time.Hour, nil)
}

func protectedHandler(auth *AdminAuthenticator) http.Handler {
	return auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminAuthenticator_StaticToken(t *testing.T) {
	auth := newTestAuthenticator()
	handler := protectedHandler(auth)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminTokenHeader, "static-admin-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("正しい静的トークンで %d (想定: 200)", rec.Code)
	}
}

func TestAdminAuthenticator_WrongStaticToken(t *testing.T) {
	auth := newTestAuthenticator()
	handler := protectedHandler(auth)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminTokenHeader, "wrong-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("誤った静的トークンで %d (想定: 401)", rec.Code)
	}
}

func TestAdminAuthenticator_MissingCredentials(t *testing.T) {
	auth := newTestAuthenticator()
	handler := protectedHandler(auth)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("認証情報なしで %d (想定: 401)", rec.Code)
	}
}

func TestAdminAuthenticator_IssuedJWT(t *testing.T) {
	auth := newTestAuthenticator()
	handler := protectedHandler(auth)

	token, expiresAt, err := auth.IssueToken(time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("有効期限が過去: %v", expiresAt)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("発行済み JWT で %d (想定: 200)", rec.Code)
	}
}

func TestAdminAuthenticator_ForeignJWTRejected(t *testing.T) {
	other := NewAdminAuthenticator("t", "test-issuer", []byte("other-secret"), time.Hour, nil)
	token, _, err := other.IssueToken(time.Now())
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	auth := newTestAuthenticator()
	handler := protectedHandler(auth)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("別シークレットの JWT で %d (想定: 401)", rec.Code)
	}
}

func TestAdminAuthenticator_ExpiredJWTRejected(t *testing.T) {
	auth := NewAdminAuthenticator("t", "test-issuer", []byte("test-secret"), time.Minute, nil)
	token, _, err := auth.IssueToken(time.Now().Add(-2 * time.Hour))
	if err != nil {
		t.Fatalf("トークン発行に失敗: %v", err)
	}

	handler := protectedHandler(auth)
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("期限切れ JWT で %d (想定: 401)", rec.Code)
	}
}
