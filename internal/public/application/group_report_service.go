package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
	"github.com/amint/interview-hub/api/internal/prompts"
)

// ErrNoSummaries はグループ内に個別レポートが1件も存在しないことを表す。
var ErrNoSummaries = errors.New("このグループにはまだ個別レポートがありません")

// GroupReportService はグループ横断レポートの取得・生成ユースケース。
// refresh 指定がない限りキャッシュを優先し、LLM は呼ばない。
type GroupReportService interface {
	GetOrBuild(ctx context.Context, groupID string, refresh bool) (*interview.GroupSummary, error)
	GetCached(ctx context.Context, groupID string) (*interview.GroupSummary, error)
}

// GroupReportServiceConfig は GroupReportService の依存。
type GroupReportServiceConfig struct {
	Groups    GroupRepository
	Summaries SummaryRepository
	Cache     GroupSummaryRepository
	Generator interview.Generator
	Templates prompts.Templates
}

// NewGroupReportService は GroupReportService を生成する。
func NewGroupReportService(cfg GroupReportServiceConfig) GroupReportService {
	return &groupReportService{
		groups:    cfg.Groups,
		summaries: cfg.Summaries,
		cache:     cfg.Cache,
		generator: cfg.Generator,
		templates: cfg.Templates,
	}
}

type groupReportService struct {
	groups    GroupRepository
	summaries SummaryRepository
	cache     GroupSummaryRepository
	generator interview.Generator
	templates prompts.Templates
}

func (s *groupReportService) GetCached(ctx context.Context, groupID string) (*interview.GroupSummary, error) {
	return s.cache.FindByID(ctx, groupID)
}

func (s *groupReportService) GetOrBuild(ctx context.Context, groupID string, refresh bool) (*interview.GroupSummary, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if !refresh {
		cached, err := s.cache.FindByID(ctx, groupID)
		if err == nil && strings.TrimSpace(cached.Summary) != "" {
			return cached, nil
		}
		if err != nil && !errors.Is(err, interview.ErrNotFound) {
			return nil, err
		}
	}

	// レポートが存在しないトークンはスキップして残りから合成する。
	blocks := make([]prompts.SummaryBlock, 0, len(group.InterviewIDs))
	for _, id := range group.InterviewIDs {
		summary, err := s.summaries.FindByID(ctx, id)
		if errors.Is(err, interview.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(summary.Summary) == "" {
			continue
		}
		blocks = append(blocks, prompts.SummaryBlock{
			InterviewID: summary.InterviewID,
			Summary:     strings.TrimSpace(summary.Summary),
		})
	}
	if len(blocks) == 0 {
		return nil, ErrNoSummaries
	}

	userPrompt := s.templates.BuildGroupPrompt(prompts.GroupPromptInput{
		GroupID:        group.GroupID,
		RestaurantName: group.RestaurantName,
		TotalIDs:       len(group.InterviewIDs),
		Blocks:         blocks,
	})

	text, err := s.generator.Generate(ctx, s.templates.GroupSystem, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("グループレポートの生成に失敗: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("グループレポートの生成に失敗: %w", interview.ErrEmptyReply)
	}

	built := interview.GroupSummary{
		GroupID:   group.GroupID,
		Summary:   strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cache.Upsert(ctx, built); err != nil {
		return nil, fmt.Errorf("グループレポートの保存に失敗: %w", err)
	}
	return &built, nil
}
