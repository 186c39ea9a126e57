package application

import (
	"context"
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

// StoredConfig は保存済みの面接設定の読み取りモデル。
type StoredConfig struct {
	InterviewID string
	Config      interview.InterviewConfig
	Meta        *interview.InterviewMeta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConfigRepository は Public コンテキストで面接設定を読み取るためのポート。
type ConfigRepository interface {
	FindByID(ctx context.Context, interviewID string) (*StoredConfig, error)
}

// SummaryRepository は個別レポートの読み書きを提供するポート。
type SummaryRepository interface {
	Upsert(ctx context.Context, summary interview.Summary) error
	FindByID(ctx context.Context, interviewID string) (*interview.Summary, error)
}

// GroupRepository はグループの読み取りを提供するポート。
type GroupRepository interface {
	FindByID(ctx context.Context, groupID string) (*interview.Group, error)
}

// GroupSummaryRepository はグループレポートキャッシュのポート。
type GroupSummaryRepository interface {
	Upsert(ctx context.Context, summary interview.GroupSummary) error
	FindByID(ctx context.Context, groupID string) (*interview.GroupSummary, error)
}

// ConfigQueryService は面接設定の参照ユースケース。
// ConfigQueryService reads stored interview configs for the candidate surface.
type ConfigQueryService interface {
	Get(ctx context.Context, interviewID string) (*StoredConfig, error)
}

// NewConfigQueryService は ConfigQueryService を生成する。
func NewConfigQueryService(repo ConfigRepository) ConfigQueryService {
	return &configQueryService{repo: repo}
}

type configQueryService struct {
	repo ConfigRepository
}

func (s *configQueryService) Get(ctx context.Context, interviewID string) (*StoredConfig, error) {
	return s.repo.FindByID(ctx, interviewID)
}

// SaveSummaryCommand は要約保存リクエストの入力。
type SaveSummaryCommand struct {
	InterviewID     string
	Summary         string
	RawConversation string
}

// SummaryCommandService は要約の upsert 保存ユースケース。
// クライアント側でターンを進める薄い実装からも直接叩けるよう公開している。
type SummaryCommandService interface {
	Save(ctx context.Context, cmd SaveSummaryCommand) (*interview.Summary, error)
}

// NewSummaryCommandService は SummaryCommandService を生成する。
func NewSummaryCommandService(repo SummaryRepository) SummaryCommandService {
	return &summaryCommandService{repo: repo}
}

type summaryCommandService struct {
	repo SummaryRepository
}

func (s *summaryCommandService) Save(ctx context.Context, cmd SaveSummaryCommand) (*interview.Summary, error) {
	summary := interview.Summary{
		InterviewID:     cmd.InterviewID,
		Summary:         cmd.Summary,
		RawConversation: cmd.RawConversation,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
