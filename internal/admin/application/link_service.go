package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amint/interview-hub/api/internal/interview"
)

// 1回の生成で発行できるリンク数の上限。誤操作による大量発行を防ぐ。
const maxLinksPerBatch = 50

var groupIDPattern = regexp.MustCompile(`[^a-z0-9-_]`)

// GenerateLinksCommand はリンク一括発行の入力。
type GenerateLinksCommand struct {
	Config         interview.InterviewConfig
	GroupID        string
	RestaurantName string
	Count          int
}

// LinkBatch は発行結果。トークンごとに設定が upsert され、グループへマージ済み。
type LinkBatch struct {
	GroupID        string
	RestaurantName string
	Tokens         []string
	Group          *interview.Group
}

// LinkService は面接トークンとグループトークンの発行ユースケース。
type LinkService interface {
	GenerateLinks(ctx context.Context, cmd GenerateLinksCommand) (*LinkBatch, error)
	SaveConfig(ctx context.Context, interviewID string, config interview.InterviewConfig, meta *interview.InterviewMeta) error
}

// NewLinkService は LinkService を生成する。
func NewLinkService(configs ConfigRepository, groups GroupRepository) LinkService {
	return &linkService{configs: configs, groups: groups}
}

type linkService struct {
	configs ConfigRepository
	groups  GroupRepository
}

// NormalizeGroupID はグループIDを URL で扱える形式へ正規化する。
func NormalizeGroupID(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Join(strings.Fields(normalized), "-")
	return groupIDPattern.ReplaceAllString(normalized, "")
}

func (s *linkService) GenerateLinks(ctx context.Context, cmd GenerateLinksCommand) (*LinkBatch, error) {
	if err := cmd.Config.Validate(); err != nil {
		return nil, err
	}
	groupID := NormalizeGroupID(cmd.GroupID)
	if groupID == "" {
		return nil, errors.New("groupId は必須です")
	}
	if cmd.Count < 1 {
		return nil, errors.New("発行数は1以上を指定してください")
	}
	if cmd.Count > maxLinksPerBatch {
		return nil, fmt.Errorf("発行数は最大 %d までです", maxLinksPerBatch)
	}

	now := time.Now().UTC()
	restaurantName := strings.TrimSpace(cmd.RestaurantName)

	tokens := make([]string, 0, cmd.Count)
	for i := 0; i < cmd.Count; i++ {
		token := uuid.NewString()
		meta := &interview.InterviewMeta{
			InterviewID:    token,
			GroupID:        groupID,
			RestaurantName: restaurantName,
			CreatedAt:      now,
		}
		if err := s.configs.Upsert(ctx, token, cmd.Config, meta); err != nil {
			return nil, fmt.Errorf("トークン %s の設定保存に失敗: %w", token, err)
		}
		tokens = append(tokens, token)
	}

	group, err := s.groups.Merge(ctx, groupID, restaurantName, tokens)
	if err != nil {
		return nil, fmt.Errorf("グループの保存に失敗: %w", err)
	}

	return &LinkBatch{
		GroupID:        groupID,
		RestaurantName: restaurantName,
		Tokens:         tokens,
		Group:          group,
	}, nil
}

// SaveConfig は単一トークンの設定 upsert。既存トークンの台本差し替えに使う。
func (s *linkService) SaveConfig(ctx context.Context, interviewID string, config interview.InterviewConfig, meta *interview.InterviewMeta) error {
	if strings.TrimSpace(interviewID) == "" {
		return errors.New("interviewId は必須です")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	return s.configs.Upsert(ctx, strings.TrimSpace(interviewID), config, meta)
}
