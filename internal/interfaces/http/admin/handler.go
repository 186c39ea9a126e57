package admin

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/amint/interview-hub/api/internal/admin/application"
	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	authenticator   *common.AdminAuthenticator
	linkService     adminapp.LinkService
	reportService   adminapp.ReportService
	groupReports    publicapp.GroupReportService
	publicClientURL string
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	Authenticator   *common.AdminAuthenticator
	LinkService     adminapp.LinkService
	ReportService   adminapp.ReportService
	GroupReports    publicapp.GroupReportService
	PublicClientURL string
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:          cfg.Logger,
		authenticator:   cfg.Authenticator,
		linkService:     cfg.LinkService,
		reportService:   cfg.ReportService,
		groupReports:    cfg.GroupReports,
		publicClientURL: cfg.PublicClientURL,
	}
}

// Register mounts admin routes onto router. ログイン以外はすべて認証を要求する。
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/login", h.loginHandler())

	r.Group(func(pr chi.Router) {
		pr.Use(h.authenticator.Middleware)

		pr.Get("/admin/ping", h.pingHandler())

		pr.Post("/save-interview-config", h.configSaveHandler())
		pr.Post("/generate-links", h.linkGenerateHandler())

		pr.Get("/summaries", h.summaryListHandler())
		pr.Get("/summary/{token}", h.summaryDetailHandler())
		pr.Delete("/summary/{token}", h.summaryDeleteHandler())

		pr.Post("/save-group", h.groupSaveHandler())
		pr.Get("/groups", h.groupListHandler())
		pr.Get("/group/{groupId}", h.groupDetailHandler())
		pr.Delete("/group/{groupId}", h.groupDeleteHandler())

		pr.Get("/group-summary/{groupId}", h.groupSummaryHandler())
		pr.Get("/group-summary-cache/{groupId}", h.groupSummaryCacheHandler())
	})
}

func (h *Handler) pingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
