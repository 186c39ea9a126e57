package common

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenHeader は管理画面が送る静的トークンのヘッダー名。
const AdminTokenHeader = "X-Admin-Token"

// AdminAuthenticator は管理系エンドポイントの認証を担う。
// 静的トークン(x-admin-token)と、ログインで交換した Bearer JWT の両方を受け付ける。
type AdminAuthenticator struct {
	adminToken string
	issuer     string
	secret     []byte
	ttl        time.Duration
	logger     *log.Logger
}

// NewAdminAuthenticator は AdminAuthenticator を生成する。
func NewAdminAuthenticator(adminToken, issuer string, secret []byte, ttl time.Duration, logger *log.Logger) *AdminAuthenticator {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuthenticator{
		adminToken: strings.TrimSpace(adminToken),
		issuer:     issuer,
		secret:     secret,
		ttl:        ttl,
		logger:     logger,
	}
}

// VerifyStaticToken はログイン時の静的トークン照合。
func (a *AdminAuthenticator) VerifyStaticToken(token string) bool {
	return a.adminToken != "" && strings.TrimSpace(token) == a.adminToken
}

// IssueToken は管理者向けの HS256 JWT を発行する。
func (a *AdminAuthenticator) IssueToken(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("管理者トークンの発行に失敗: %w", err)
	}
	return token, expiresAt, nil
}

// parseJWT は Bearer JWT の署名と Issuer を検証する。
func (a *AdminAuthenticator) parseJWT(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return a.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return fmt.Errorf("アクセストークンが無効です")
	}
	if a.issuer != "" && claims.Issuer != a.issuer {
		return fmt.Errorf("アクセストークンが無効です")
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return fmt.Errorf("アクセストークンの有効期限が切れています")
	}
	return nil
}

// Middleware は管理系ルートを保護するミドルウェアを返す。
func (a *AdminAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.VerifyStaticToken(r.Header.Get(AdminTokenHeader)) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			WriteError(a.logger, w, http.StatusUnauthorized, "認証情報がありません")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			WriteError(a.logger, w, http.StatusUnauthorized, "アクセストークンが空です")
			return
		}
		if err := a.parseJWT(tokenString); err != nil {
			WriteError(a.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
