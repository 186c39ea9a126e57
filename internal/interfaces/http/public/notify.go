package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/amint/interview-hub/api/internal/interview"
)

// notifySummaryReceipt はレポート保存を運用側の Webhook へ通知する。
// 通知の失敗はレポート保存の成否に影響させず、failed_notifications へ記録するだけに留める。
func (h *Handler) notifySummaryReceipt(ctx context.Context, summary interview.Summary) {
	endpoint := strings.TrimSpace(h.notifyWebhookURL)
	if endpoint == "" {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	message := buildSummaryReceiptMessage(summary)
	err := h.sendWebhookWithRetry(ctx, endpoint, summary.InterviewID, message, 3, 200*time.Millisecond)
	if err == nil {
		return
	}
	if h.logger != nil {
		h.logger.Printf("レポート保存通知の送信に失敗: %v", err)
	}
	h.persistNotificationFailure(ctx, summary, err, 3)
}

func buildSummaryReceiptMessage(summary interview.Summary) string {
	var builder strings.Builder
	builder.WriteString("新しい面接レポートが保存されました。\n")
	builder.WriteString(fmt.Sprintf("- トークン: %s\n", summary.InterviewID))
	builder.WriteString(fmt.Sprintf("- 保存時刻: %s\n", summary.CreatedAt.Format(time.RFC3339)))

	preview := strings.TrimSpace(summary.Summary)
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200]) + "…"
	}
	if preview != "" {
		builder.WriteString("- 冒頭: " + preview + "\n")
	}
	return builder.String()
}

func (h *Handler) sendWebhookWithRetry(ctx context.Context, endpoint, identifier, text string, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := h.sendWebhookMessage(ctx, endpoint, identifier, text); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return lastErr
}

func (h *Handler) sendWebhookMessage(ctx context.Context, endpoint, identifier, text string) error {
	payload := map[string]any{
		"identifier": identifier,
		"text":       text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("通知用ペイロードの作成に失敗: %w", err)
	}

	client := h.httpClient
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	timeout := client.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("通知リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("通知リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("通知送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}

func (h *Handler) persistNotificationFailure(ctx context.Context, summary interview.Summary, sendErr error, attempts int) {
	if h.failedNotifications == nil || sendErr == nil {
		return
	}
	doc := bson.M{
		"target": "summary_receipt",
		"payload": bson.M{
			"interviewId": summary.InterviewID,
			"createdAt":   summary.CreatedAt,
		},
		"error":       sendErr.Error(),
		"attempts":    attempts,
		"status":      "pending",
		"createdAt":   time.Now().UTC(),
		"lastTriedAt": time.Now().UTC(),
	}
	if _, err := h.failedNotifications.InsertOne(ctx, doc); err != nil && h.logger != nil {
		h.logger.Printf("failed_notifications への保存に失敗: %v", err)
	}
}
