package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	adminapp "github.com/amint/interview-hub/api/internal/admin/application"
	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
)

// loginHandler は静的トークンを Bearer JWT へ交換する。
func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if !h.authenticator.VerifyStaticToken(req.Token) {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "管理者トークンが一致しません")
			return
		}

		accessToken, expiresAt, err := h.authenticator.IssueToken(time.Now())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, loginResponse{
			AccessToken: accessToken,
			ExpiresAt:   expiresAt,
		})
	}
}

// configSaveHandler は単一トークンの面接設定を upsert する。
func (h *Handler) configSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}

		interviewID := strings.TrimSpace(req.InterviewID)
		if interviewID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "interviewId は必須です")
			return
		}
		if err := req.Config.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.linkService.SaveConfig(r.Context(), interviewID, req.Config, nil); err != nil {
			h.writeServiceError(w, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"interviewId": interviewID,
			"status":      "saved",
		})
	}
}

// linkGenerateHandler は同一設定のリンクを一括発行し、グループへマージする。
func (h *Handler) linkGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateLinksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if err := req.Config.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		batch, err := h.linkService.GenerateLinks(r.Context(), adminapp.GenerateLinksCommand{
			Config:         req.Config,
			GroupID:        req.GroupID,
			RestaurantName: req.RestaurantName,
			Count:          req.Count,
		})
		if err != nil {
			if isValidationError(err) {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			h.writeServiceError(w, err)
			return
		}

		links := make([]generatedLink, 0, len(batch.Tokens))
		for _, token := range batch.Tokens {
			links = append(links, generatedLink{
				Token: token,
				URL:   h.buildCandidateURL(token),
			})
		}

		resp := generateLinksResponse{
			GroupID:        batch.GroupID,
			RestaurantName: batch.RestaurantName,
			Links:          links,
		}
		if batch.Group != nil {
			resp.Group = groupToResponse(*batch.Group)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}

// buildCandidateURL は候補者ページの URL を組み立てる。
func (h *Handler) buildCandidateURL(token string) string {
	base := strings.TrimRight(strings.TrimSpace(h.publicClientURL), "/")
	if base == "" {
		return token
	}
	return fmt.Sprintf("%s/?token=%s", base, url.QueryEscape(token))
}

// isValidationError は入力起因のエラーを判別する。
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "必須") ||
		strings.Contains(message, "指定してください") ||
		strings.Contains(message, "最大")
}
