package public

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
)

// sessionStartHandler は面接トークンからセッションを開始し、冒頭の挨拶を返す。
func (h *Handler) sessionStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionStartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		token := strings.TrimSpace(req.Token)
		if token == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "token は必須です")
			return
		}

		result, err := h.sessions.Start(r.Context(), token)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, sessionStartResponse{
			SessionID:     result.SessionID,
			Opening:       result.Opening,
			QuestionCount: result.QuestionCount,
			AvatarID:      result.AvatarID,
			VoiceID:       result.VoiceID,
		})
	}
}

// sessionAnswerHandler は候補者の回答を1ターン分進める。
// 最終質問への回答で面接は終了し、要約の保存まで同じリクエスト内で行う。
func (h *Handler) sessionAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if sessionID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "sessionId は必須です")
			return
		}

		var req sessionAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}

		result, err := h.sessions.Answer(r.Context(), sessionID, req.Answer)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, sessionAnswerResponse{
			Reply:         result.Reply,
			Finished:      result.Finished,
			QuestionIndex: result.QuestionIndex,
			SummaryState:  string(result.SummaryState),
			SummaryError:  result.SummaryError,
		})
	}
}

// sessionSummarizeHandler は要約が保存に至らなかったセッションの手動再試行。
func (h *Handler) sessionSummarizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if sessionID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "sessionId は必須です")
			return
		}

		result, err := h.sessions.Summarize(r.Context(), sessionID)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, sessionAnswerResponse{
			Finished:      result.Finished,
			QuestionIndex: result.QuestionIndex,
			SummaryState:  string(result.SummaryState),
			SummaryError:  result.SummaryError,
		})
	}
}
