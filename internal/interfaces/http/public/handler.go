package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amint/interview-hub/api/internal/infrastructure/heygen"
	"github.com/amint/interview-hub/api/internal/infrastructure/openai"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger              *log.Logger
	configQueries       publicapp.ConfigQueryService
	summaryCommands     publicapp.SummaryCommandService
	sessions            publicapp.SessionService
	groupReports        publicapp.GroupReportService
	openAI              *openai.Client
	heyGen              *heygen.Proxy
	publicClientURL     string
	httpClient          *http.Client
	notifyWebhookURL    string
	failedNotifications *mongo.Collection
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger              *log.Logger
	ConfigQueries       publicapp.ConfigQueryService
	SummaryCommands     publicapp.SummaryCommandService
	Sessions            publicapp.SessionService
	GroupReports        publicapp.GroupReportService
	OpenAI              *openai.Client
	HeyGen              *heygen.Proxy
	PublicClientURL     string
	HTTPClient          *http.Client
	NotifyWebhookURL    string
	FailedNotifications *mongo.Collection
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:              cfg.Logger,
		configQueries:       cfg.ConfigQueries,
		summaryCommands:     cfg.SummaryCommands,
		sessions:            cfg.Sessions,
		groupReports:        cfg.GroupReports,
		openAI:              cfg.OpenAI,
		heyGen:              cfg.HeyGen,
		publicClientURL:     cfg.PublicClientURL,
		httpClient:          cfg.HTTPClient,
		notifyWebhookURL:    cfg.NotifyWebhookURL,
		failedNotifications: cfg.FailedNotifications,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/interview-config/{token}", h.configDetailHandler())
	r.Post("/save-summary", h.summarySaveHandler())
	r.Get("/group-summary/{groupId}", h.groupSummaryCachedHandler())
	r.Get("/public-app-url", h.publicAppURLHandler())

	r.Post("/session/start", h.sessionStartHandler())
	r.Post("/session/{sessionId}/answer", h.sessionAnswerHandler())
	r.Post("/session/{sessionId}/summarize", h.sessionSummarizeHandler())

	r.Post("/openai/chat", h.openAIChatHandler())
	r.Post("/openai/transcribe", h.openAITranscribeHandler())
	r.HandleFunc("/heygen/*", h.heyGenProxyHandler())
}
