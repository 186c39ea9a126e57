package public

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
)

// configDetailHandler は面接トークンに紐づく設定を返す。候補者ページの起動時に呼ばれる。
func (h *Handler) configDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "token は必須です")
			return
		}

		stored, err := h.configQueries.Get(r.Context(), token)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, configResponse{
			InterviewID: stored.InterviewID,
			Config:      stored.Config,
			Meta:        stored.Meta,
			UpdatedAt:   stored.UpdatedAt,
		})
	}
}

// summarySaveHandler は面接レポートをトークン単位で upsert する。
// クライアント側でターンを進める構成から直接叩かれるため認証は要求しない。
func (h *Handler) summarySaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveSummaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}

		interviewID := strings.TrimSpace(req.InterviewID)
		summaryText := strings.TrimSpace(req.Summary)
		if interviewID == "" || summaryText == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "interviewId と summary は必須です")
			return
		}

		saved, err := h.summaryCommands.Save(r.Context(), publicapp.SaveSummaryCommand{
			InterviewID:     interviewID,
			Summary:         summaryText,
			RawConversation: req.RawConversation,
		})
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		h.notifySummaryReceipt(r.Context(), *saved)

		common.WriteJSON(h.logger, w, http.StatusOK, summaryResponse{
			InterviewID: saved.InterviewID,
			Summary:     saved.Summary,
			CreatedAt:   saved.CreatedAt,
		})
	}
}

// groupSummaryCachedHandler はキャッシュ済みのグループレポートだけを返す。LLM は呼ばない。
func (h *Handler) groupSummaryCachedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := strings.TrimSpace(chi.URLParam(r, "groupId"))
		if groupID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "groupId は必須です")
			return
		}

		cached, err := h.groupReports.GetCached(r.Context(), groupID)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, groupSummaryResponse{
			GroupID:   cached.GroupID,
			Summary:   cached.Summary,
			CreatedAt: cached.CreatedAt,
		})
	}
}

// publicAppURLHandler は管理画面がリンク組み立てに使う公開クライアントの URL を返す。
func (h *Handler) publicAppURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"url": h.publicClientURL})
	}
}
