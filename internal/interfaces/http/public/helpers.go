package public

import (
	"errors"
	"net/http"

	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
	"github.com/amint/interview-hub/api/internal/interview"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
	"github.com/amint/interview-hub/api/internal/session"
)

// writeServiceError はアプリケーション層のエラーを HTTP ステータスへ写像する。
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound), errors.Is(err, session.ErrNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, interview.ErrEmptyAnswer), errors.Is(err, publicapp.ErrNoSummaries):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interview.ErrSessionFinished),
		errors.Is(err, interview.ErrSessionNotActive),
		errors.Is(err, interview.ErrSessionAlreadyStarted),
		errors.Is(err, interview.ErrSessionNotFinished),
		errors.Is(err, interview.ErrSummaryInFlight),
		errors.Is(err, interview.ErrSummaryAlreadySaved):
		common.WriteError(h.logger, w, http.StatusConflict, err.Error())
	default:
		if h.logger != nil {
			h.logger.Printf("公開エンドポイントで内部エラー: %v", err)
		}
		common.WriteError(h.logger, w, http.StatusInternalServerError, "内部エラーが発生しました")
	}
}
