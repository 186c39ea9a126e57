package public

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amint/interview-hub/api/internal/infrastructure/openai"
	"github.com/amint/interview-hub/api/internal/interfaces/http/common"
)

// 音声アップロードの上限。Whisper API 側の制限に合わせる。
const maxAudioUploadBytes = 25 << 20

// openAIChatHandler はチャット補完の中継。API キーをクライアントへ渡さないための薄いプロキシ。
func (h *Handler) openAIChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.openAI == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "OpenAI クライアントが構成されていません")
			return
		}

		var req chatProxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストボディの形式が不正です")
			return
		}
		if len(req.Messages) == 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "messages は必須です")
			return
		}

		messages := make([]openai.Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			role := strings.TrimSpace(m.Role)
			if role == "" {
				common.WriteError(h.logger, w, http.StatusBadRequest, "messages の role は必須です")
				return
			}
			messages = append(messages, openai.Message{Role: role, Content: m.Content})
		}

		text, err := h.openAI.Chat(r.Context(), messages)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("チャット補完の中継に失敗: %v", err)
			}
			common.WriteError(h.logger, w, http.StatusBadGateway, "チャット補完に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, chatProxyResponse{Text: text})
	}
}

// openAITranscribeHandler は音声ファイルを受け取り書き起こしテキストを返す。
func (h *Handler) openAITranscribeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.openAI == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "OpenAI クライアントが構成されていません")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
		if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "音声ファイルの読み取りに失敗しました")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "file フィールドは必須です")
			return
		}
		defer file.Close()

		text, err := h.openAI.Transcribe(r.Context(), header.Filename, file)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("書き起こしの中継に失敗: %v", err)
			}
			common.WriteError(h.logger, w, http.StatusBadGateway, "書き起こしに失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, transcriptionProxyResponse{Text: text})
	}
}

// heyGenProxyHandler はアバター API への中継。残りパスをそのまま上流へ渡す。
func (h *Handler) heyGenProxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.heyGen == nil {
			common.WriteError(h.logger, w, http.StatusServiceUnavailable, "HeyGen 中継が構成されていません")
			return
		}
		h.heyGen.Forward(w, r, chi.URLParam(r, "*"))
	}
}
