package admin

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
)

// summaryListHandler は保存済みレポートを新しい順に返す。
func (h *Handler) summaryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := h.reportService.ListSummaries(r.Context(), parseLimit(r))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		items := make([]summaryResponse, 0, len(summaries))
		for _, summary := range summaries {
			items = append(items, summaryToResponse(summary))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"summaries": items})
	}
}

func (h *Handler) summaryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "token は必須です")
			return
		}

		summary, err := h.reportService.GetSummary(r.Context(), token)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, summaryToResponse(*summary))
	}
}

// summaryDeleteHandler はレポートを確定的に削除する。関連グループのキャッシュも無効化される。
func (h *Handler) summaryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "token は必須です")
			return
		}

		if err := h.reportService.DeleteSummary(r.Context(), token); err != nil {
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"interviewId": token,
			"status":      "deleted",
		})
	}
}

// groupSaveHandler はグループを upsert する。interviewIds は既存との和集合になる。
func (h *Handler) groupSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}

		group, err := h.reportService.SaveGroup(r.Context(), req.GroupID, req.RestaurantName, req.InterviewIDs)
		if err != nil {
			if isValidationError(err) {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, groupToResponse(*group))
	}
}

func (h *Handler) groupListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := h.reportService.ListGroups(r.Context(), parseLimit(r))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}

		items := make([]groupResponse, 0, len(groups))
		for _, group := range groups {
			items = append(items, groupToResponse(group))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"groups": items})
	}
}

func (h *Handler) groupDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := strings.TrimSpace(chi.URLParam(r, "groupId"))
		if groupID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "groupId は必須です")
			return
		}

		group, err := h.reportService.GetGroup(r.Context(), groupID)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, groupToResponse(*group))
	}
}

// groupDeleteHandler はグループとキャッシュ済みレポートを削除する。個別レポートは残る。
func (h *Handler) groupDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := strings.TrimSpace(chi.URLParam(r, "groupId"))
		if groupID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "groupId は必須です")
			return
		}

		if err := h.reportService.DeleteGroup(r.Context(), groupID); err != nil {
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{
			"groupId": groupID,
			"status":  "deleted",
		})
	}
}

// groupSummaryHandler はグループ横断レポートを返す。
// ?refresh=1 のときだけキャッシュを無視して再生成する。
func (h *Handler) groupSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := strings.TrimSpace(chi.URLParam(r, "groupId"))
		if groupID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "groupId は必須です")
			return
		}

		built, err := h.groupReports.GetOrBuild(r.Context(), groupID, parseRefresh(r))
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, groupSummaryResponse{
			GroupID:   built.GroupID,
			Summary:   built.Summary,
			CreatedAt: built.CreatedAt,
		})
	}
}

// groupSummaryCacheHandler はキャッシュの有無だけを確認する読み取り。LLM は呼ばない。
func (h *Handler) groupSummaryCacheHandler() http.HandlerFunc {
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
