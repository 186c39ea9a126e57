package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/amint/interview-hub/api/internal/interview"
)

// ReportService はレポートとグループの管理者向けユースケース。
// Summary の削除は確定的で、所属グループのキャッシュ済みレポートも同時に無効化する。
type ReportService interface {
	ListSummaries(ctx context.Context, limit int) ([]interview.Summary, error)
	GetSummary(ctx context.Context, interviewID string) (*interview.Summary, error)
	DeleteSummary(ctx context.Context, interviewID string) error

	SaveGroup(ctx context.Context, groupID, restaurantName string, interviewIDs []string) (*interview.Group, error)
	ListGroups(ctx context.Context, limit int) ([]interview.Group, error)
	GetGroup(ctx context.Context, groupID string) (*interview.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
}

// ReportServiceConfig は ReportService の依存。
type ReportServiceConfig struct {
	Summaries      SummaryRepository
	Groups         GroupRepository
	GroupSummaries GroupSummaryRepository
	Logger         *log.Logger
}

// NewReportService は ReportService を生成する。
func NewReportService(cfg ReportServiceConfig) ReportService {
	return &reportService{
		summaries:      cfg.Summaries,
		groups:         cfg.Groups,
		groupSummaries: cfg.GroupSummaries,
		logger:         cfg.Logger,
	}
}

type reportService struct {
	summaries      SummaryRepository
	groups         GroupRepository
	groupSummaries GroupSummaryRepository
	logger         *log.Logger
}

func (s *reportService) ListSummaries(ctx context.Context, limit int) ([]interview.Summary, error) {
	return s.summaries.List(ctx, limit)
}

func (s *reportService) GetSummary(ctx context.Context, interviewID string) (*interview.Summary, error) {
	return s.summaries.FindByID(ctx, interviewID)
}

// DeleteSummary は個別レポートを削除し、そのトークンを含むグループの
// キャッシュ済みレポートを無効化する。キャッシュ削除の失敗は致命ではないためログに留める。
func (s *reportService) DeleteSummary(ctx context.Context, interviewID string) error {
	if err := s.summaries.Delete(ctx, interviewID); err != nil {
		return err
	}

	groups, err := s.groups.FindByInterviewID(ctx, interviewID)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("トークン %s の所属グループ検索に失敗: %v", interviewID, err)
		}
		return nil
	}
	for _, group := range groups {
		if err := s.groupSummaries.Delete(ctx, group.GroupID); err != nil && !errors.Is(err, interview.ErrNotFound) {
			if s.logger != nil {
				s.logger.Printf("グループ %s のキャッシュ無効化に失敗: %v", group.GroupID, err)
			}
		}
	}
	return nil
}

func (s *reportService) SaveGroup(ctx context.Context, groupID, restaurantName string, interviewIDs []string) (*interview.Group, error) {
	normalized := NormalizeGroupID(groupID)
	if normalized == "" {
		return nil, errors.New("groupId は必須です")
	}
	if len(interviewIDs) == 0 {
		return nil, errors.New("interviewIds には少なくとも1件必要です")
	}
	trimmed := make([]string, 0, len(interviewIDs))
	for _, id := range interviewIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		trimmed = append(trimmed, id)
	}
	if len(trimmed) == 0 {
		return nil, errors.New("interviewIds には少なくとも1件必要です")
	}

	group, err := s.groups.Merge(ctx, normalized, strings.TrimSpace(restaurantName), trimmed)
	if err != nil {
		return nil, fmt.Errorf("グループの保存に失敗: %w", err)
	}
	return group, nil
}

func (s *reportService) ListGroups(ctx context.Context, limit int) ([]interview.Group, error) {
	return s.groups.List(ctx, limit)
}

func (s *reportService) GetGroup(ctx context.Context, groupID string) (*interview.Group, error) {
	return s.groups.FindByID(ctx, groupID)
}

// DeleteGroup はグループ行とキャッシュ済みレポートを削除する。個別レポートは残す。
func (s *reportService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	if err := s.groupSummaries.Delete(ctx, groupID); err != nil && !errors.Is(err, interview.ErrNotFound) {
		if s.logger != nil {
			s.logger.Printf("グループ %s のキャッシュ削除に失敗: %v", groupID, err)
		}
	}
	return nil
}
