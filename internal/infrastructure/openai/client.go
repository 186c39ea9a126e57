package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultChatModel   = "gpt-4o-mini"
	defaultAudioModel  = "whisper-1"
	defaultTemperature = 0.7
)

// Client は OpenAI API への薄い HTTP クライアント。
// チャット補完と音声書き起こしのみを扱う。
type Client struct {
	apiKey      string
	baseURL     string
	chatModel   string
	audioModel  string
	temperature float64
	httpClient  *http.Client
}

// ClientConfig は Client の生成パラメータ。空のフィールドには既定値を使う。
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	AudioModel  string
	Temperature float64
	HTTPClient  *http.Client
}

// NewClient は設定を補完した Client を生成する。
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	chatModel := strings.TrimSpace(cfg.ChatModel)
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	audioModel := strings.TrimSpace(cfg.AudioModel)
	if audioModel == "" {
		audioModel = defaultAudioModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     baseURL,
		chatModel:   chatModel,
		audioModel:  audioModel,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

// Message はチャット補完の1メッセージ。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Generate は system/user プロンプトでチャット補完を1回実行し、先頭の応答テキストを返す。
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
	return c.Chat(ctx, messages)
}

// Chat は任意のメッセージ列でチャット補完を実行する。
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API キーが設定されていません")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("チャット補完リクエストの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("チャット補完リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("チャット補完リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("チャット補完レスポンスの読み取りに失敗: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("チャット補完レスポンスの解析に失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		message := strings.TrimSpace(string(payload))
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return "", fmt.Errorf("チャット補完でエラーが発生: status=%d message=%s", res.StatusCode, message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("チャット補完の応答が空です")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error,omitempty"`
}

// Transcribe は音声データを Whisper で書き起こす。
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API キーが設定されていません")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "audio.webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("書き起こしリクエストの作成に失敗: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("音声データの読み取りに失敗: %w", err)
	}
	if err := writer.WriteField("model", c.audioModel); err != nil {
		return "", fmt.Errorf("書き起こしリクエストの作成に失敗: %w", err)
	}
	if err := writer.WriteField("language", "ja"); err != nil {
		return "", fmt.Errorf("書き起こしリクエストの作成に失敗: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("書き起こしリクエストの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("書き起こしリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("書き起こしリクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("書き起こしレスポンスの読み取りに失敗: %w", err)
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("書き起こしレスポンスの解析に失敗: %w", err)
	}
	if res.StatusCode >= 400 {
		message := strings.TrimSpace(string(payload))
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return "", fmt.Errorf("書き起こしでエラーが発生: status=%d message=%s", res.StatusCode, message)
	}

	return strings.TrimSpace(parsed.Text), nil
}
