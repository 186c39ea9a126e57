package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
	"github.com/amint/interview-hub/api/internal/interview"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
)

// writeServiceError はアプリケーション層のエラーを HTTP ステータスへ写像する。
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, publicapp.ErrNoSummaries):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		if h.logger != nil {
			h.logger.Printf("管理エンドポイントで内部エラー: %v", err)
		}
		common.WriteError(h.logger, w, http.StatusInternalServerError, "内部エラーが発生しました")
	}
}

// parseLimit は ?limit= を読み取る。不正値は 0 としてサービス側の既定に任せる。
func parseLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// parseRefresh は ?refresh= の真偽値指定を読み取る。
func parseRefresh(r *http.Request) bool {
	raw := strings.TrimSpace(r.URL.Query().Get("refresh"))
	return raw == "1" || strings.EqualFold(raw, "true")
}
