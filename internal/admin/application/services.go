package application

import (
	"context"

	"github.com/amint/interview-hub/api/internal/interview"
)

// ConfigRepository は Admin コンテキストで面接設定を書き込むためのポート。
type ConfigRepository interface {
	Upsert(ctx context.Context, interviewID string, config interview.InterviewConfig, meta *interview.InterviewMeta) error
}

// GroupRepository はグループの読み書きを提供するポート。
// Merge は interviewIds を和集合で足し込み、既存の createdAt を保持する。
type GroupRepository interface {
	Merge(ctx context.Context, groupID, restaurantName string, interviewIDs []string) (*interview.Group, error)
	FindByID(ctx context.Context, groupID string) (*interview.Group, error)
	FindByInterviewID(ctx context.Context, interviewID string) ([]interview.Group, error)
	List(ctx context.Context, limit int) ([]interview.Group, error)
	Delete(ctx context.Context, groupID string) error
}

// SummaryRepository は個別レポートの管理者向け読み取り・削除のポート。
type SummaryRepository interface {
	FindByID(ctx context.Context, interviewID string) (*interview.Summary, error)
	List(ctx context.Context, limit int) ([]interview.Summary, error)
	Delete(ctx context.Context, interviewID string) error
}

// GroupSummaryRepository はグループレポートキャッシュの無効化ポート。
type GroupSummaryRepository interface {
	Delete(ctx context.Context, groupID string) error
}
