package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/amint/interview-hub/api/internal/admin/application"
	"github.com/amint/interview-hub/api/internal/config"
	"github.com/amint/interview-hub/api/internal/infrastructure/heygen"
	mongodoc "github.com/amint/interview-hub/api/internal/infrastructure/mongo"
	"github.com/amint/interview-hub/api/internal/infrastructure/openai"
	adminhttp "github.com/amint/interview-hub/api/internal/interfaces/http/admin"
	commonhttp "github.com/amint/interview-hub/api/internal/interfaces/http/common"
	publichttp "github.com/amint/interview-hub/api/internal/interfaces/http/public"
	"github.com/amint/interview-hub/api/internal/interview"
	"github.com/amint/interview-hub/api/internal/prompts"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
	"github.com/amint/interview-hub/api/internal/session"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// インフラ初期化に限定し、ドメインロジックをここに書かないことで層の責務を守る。
type Server struct {
	logger              *log.Logger
	client              *mongo.Client
	database            *mongo.Database
	failedNotifications *mongo.Collection
	sessionStore        session.Store
	redisClient         *redis.Client
	templates           prompts.Templates
	openAIClient        *openai.Client
	heyGenProxy         *heygen.Proxy
	authenticator       *commonhttp.AdminAuthenticator
	configQueryService  publicapp.ConfigQueryService
	summaryCommands     publicapp.SummaryCommandService
	sessionService      publicapp.SessionService
	groupReportService  publicapp.GroupReportService
	linkService         adminapp.LinkService
	reportService       adminapp.ReportService
	httpClient          *http.Client
	notifyWebhookURL    string
	publicClientURL     string
	addr                string
	allowedOrigins      []string
}

// Run はHTTPサーバーを起動し、Public/Adminのルーティングやミドルウェアを組み立てる。
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:              s.logger,
		ConfigQueries:       s.configQueryService,
		SummaryCommands:     s.summaryCommands,
		Sessions:            s.sessionService,
		GroupReports:        s.groupReportService,
		OpenAI:              s.openAIClient,
		HeyGen:              s.heyGenProxy,
		PublicClientURL:     s.publicClientURL,
		HTTPClient:          s.httpClient,
		NotifyWebhookURL:    s.notifyWebhookURL,
		FailedNotifications: s.failedNotifications,
	})
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:          s.logger,
		Authenticator:   s.authenticator,
		LinkService:     s.linkService,
		ReportService:   s.reportService,
		GroupReports:    s.groupReportService,
		PublicClientURL: s.publicClientURL,
	})
	router.Route("/api", func(r chi.Router) {
		publicHandler.Register(r)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,X-Admin-Token")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown はセッションストアと MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	if err := s.sessionStore.Close(); err != nil {
		s.logger.Printf("セッションストア終了時にエラー: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
// 依存解決の起点となるファクトリとして機能する。
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	templates := prompts.Default()
	if cfg.PromptsPath != "" {
		loaded, err := prompts.Load(cfg.PromptsPath)
		if err != nil {
			return nil, err
		}
		templates = loaded
	}

	srv := &Server{
		logger:           cfg.ServerLog,
		client:           client,
		database:         client.Database(cfg.MongoDatabase),
		templates:        templates,
		httpClient:       &http.Client{Timeout: cfg.NotifyTimeout},
		notifyWebhookURL: cfg.NotifyWebhookURL,
		publicClientURL:  cfg.PublicClientURL,
		addr:             cfg.Addr,
		allowedOrigins:   append([]string(nil), cfg.AllowedOrigins...),
	}
	srv.failedNotifications = srv.database.Collection(cfg.FailedNotificationCollection)

	storeType := session.StoreType(strings.ToLower(strings.TrimSpace(cfg.Session.StoreType)))
	storeOpts := []session.StoreOption{session.WithTTL(cfg.Session.TTL)}
	if storeType == session.StoreTypeRedis {
		srv.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		storeOpts = append(storeOpts, session.WithRedisClient(srv.redisClient))
	}
	store, err := session.NewStore(storeType, storeOpts...)
	if err != nil {
		return nil, err
	}
	srv.sessionStore = store

	srv.openAIClient = openai.NewClient(openai.ClientConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		ChatModel:   cfg.OpenAI.ChatModel,
		AudioModel:  cfg.OpenAI.AudioModel,
		Temperature: cfg.OpenAI.Temperature,
		HTTPClient:  &http.Client{Timeout: cfg.OpenAI.Timeout},
	})
	srv.heyGenProxy = heygen.NewProxy(heygen.ProxyConfig{
		APIKey:     cfg.HeyGen.APIKey,
		BaseURL:    cfg.HeyGen.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HeyGen.Timeout},
		Logger:     cfg.ServerLog,
	})

	srv.authenticator = commonhttp.NewAdminAuthenticator(cfg.AdminToken, cfg.JWT.Issuer, cfg.JWT.Secret, cfg.JWT.TTL, cfg.ServerLog)

	configRepo := mongodoc.NewConfigRepository(srv.database, cfg.ConfigCollection)
	summaryRepo := mongodoc.NewSummaryRepository(srv.database, cfg.SummaryCollection)
	groupRepo := mongodoc.NewGroupRepository(srv.database, cfg.GroupCollection)
	groupSummaryRepo := mongodoc.NewGroupSummaryRepository(srv.database, cfg.GroupSummaryCollection)

	srv.configQueryService = publicapp.NewConfigQueryService(configRepo)
	srv.summaryCommands = publicapp.NewSummaryCommandService(summaryRepo)

	summarizer := interview.NewSummarizer(interview.SummarizerConfig{
		Generator: srv.openAIClient,
		Writer:    summaryRepo,
		Prompter:  templates,
		Logger:    cfg.ServerLog,
	})
	srv.sessionService = publicapp.NewSessionService(publicapp.SessionServiceConfig{
		Configs:    configRepo,
		Sessions:   store,
		Generator:  srv.openAIClient,
		Templates:  templates,
		Summarizer: summarizer,
		Logger:     cfg.ServerLog,
	})
	srv.groupReportService = publicapp.NewGroupReportService(publicapp.GroupReportServiceConfig{
		Groups:    groupRepo,
		Summaries: summaryRepo,
		Cache:     groupSummaryRepo,
		Generator: srv.openAIClient,
		Templates: templates,
	})

	srv.linkService = adminapp.NewLinkService(configRepo, groupRepo)
	srv.reportService = adminapp.NewReportService(adminapp.ReportServiceConfig{
		Summaries:      summaryRepo,
		Groups:         groupRepo,
		GroupSummaries: groupSummaryRepo,
		Logger:         cfg.ServerLog,
	})

	return srv, nil
}
