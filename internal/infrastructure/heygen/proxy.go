package heygen

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.heygen.com"

// hop-by-hop ヘッダーは転送しない。
var skippedResponseHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Content-Length":    {},
}

// Proxy はフロントエンドへ API キーを渡さないための HeyGen 中継。
// パスとボディをそのまま転送し、認証ヘッダーだけをサーバー側で付与する。
type Proxy struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// ProxyConfig は Proxy の生成パラメータ。
type ProxyConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewProxy は設定を補完した Proxy を生成する。
func NewProxy(cfg ProxyConfig) *Proxy {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Proxy{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Forward は upstreamPath へのリクエストを中継し、レスポンスをそのまま書き戻す。
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, upstreamPath string) {
	if p.apiKey == "" {
		http.Error(w, `{"error":"HeyGen API キーが設定されていません"}`, http.StatusServiceUnavailable)
		return
	}

	target := p.baseURL + "/" + strings.TrimLeft(upstreamPath, "/")
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("HeyGen 中継リクエストの作成に失敗: %v", err)
		}
		http.Error(w, `{"error":"HeyGen への中継に失敗しました"}`, http.StatusBadGateway)
		return
	}
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Api-Key", p.apiKey)

	res, err := p.httpClient.Do(req)
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("HeyGen 中継リクエストに失敗: %v", err)
		}
		http.Error(w, `{"error":"HeyGen への中継に失敗しました"}`, http.StatusBadGateway)
		return
	}
	defer res.Body.Close()

	for key, values := range res.Header {
		if _, skip := skippedResponseHeaders[http.CanonicalHeaderKey(key)]; skip {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(res.StatusCode)
	if _, err := io.Copy(w, res.Body); err != nil && p.logger != nil {
		p.logger.Printf("HeyGen レスポンスの書き戻しに失敗: %v", err)
	}
}
