package application

import (
	"context"
	"testing"

	"github.com/amint/interview-hub/api/internal/interview"
)

type fakeConfigRepo struct {
	saved map[string]*interview.InterviewMeta
}

func (r *fakeConfigRepo) Upsert(_ context.Context, interviewID string, _ interview.InterviewConfig, meta *interview.InterviewMeta) error {
	if r.saved == nil {
		r.saved = make(map[string]*interview.InterviewMeta)
	}
	r.saved[interviewID] = meta
	return nil
}

type fakeGroupRepo struct {
	groups map[string]*interview.Group
}

func (r *fakeGroupRepo) Merge(_ context.Context, groupID, restaurantName string, interviewIDs []string) (*interview.Group, error) {
	if r.groups == nil {
		r.groups = make(map[string]*interview.Group)
	}
	group, ok := r.groups[groupID]
	if !ok {
		group = &interview.Group{GroupID: groupID}
		r.groups[groupID] = group
	}
	if restaurantName != "" {
		group.RestaurantName = restaurantName
	}
	group.InterviewIDs = interview.MergeInterviewIDs(group.InterviewIDs, interviewIDs)
	return group, nil
}

func (r *fakeGroupRepo) FindByID(_ context.Context, groupID string) (*interview.Group, error) {
	group, ok := r.groups[groupID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return group, nil
}

func (r *fakeGroupRepo) FindByInterviewID(_ context.Context, interviewID string) ([]interview.Group, error) {
	result := make([]interview.Group, 0)
	for _, group := range r.groups {
		for _, id := range group.InterviewIDs {
			if id == interviewID {
				result = append(result, *group)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) List(_ context.Context, _ int) ([]interview.Group, error) {
	result := make([]interview.Group, 0, len(r.groups))
	for _, group := range r.groups {
		result = append(result, *group)
	}
	return result, nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, groupID string) error {
	if _, ok := r.groups[groupID]; !ok {
		return interview.ErrNotFound
	}
	delete(r.groups, groupID)
	return nil
}

func validConfig() interview.InterviewConfig {
	return interview.InterviewConfig{
		Objective: "勤務体験の把握",
		Tone:      "親しみやすい",
		Questions: []string{"質問1", "質問2"},
		AvatarID:  "avatar-1",
		VoiceID:   "voice-1",
	}
}

func TestNormalizeGroupID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Shop A", "shop-a"},
		{"  demo-group  ", "demo-group"},
		{"店舗A", "a"},
		{"UPPER_case-1", "upper_case-1"},
		{"a  b   c", "a-b-c"},
	}
	for _, tc := range cases {
		if got := NormalizeGroupID(tc.in); got != tc.want {
			t.Errorf("NormalizeGroupID(%q) = %q (想定: %q)", tc.in, got, tc.want)
		}
	}
}

func TestLinkService_GenerateLinks(t *testing.T) {
	configs := &fakeConfigRepo{}
	groups := &fakeGroupRepo{}
	svc := NewLinkService(configs, groups)

	batch, err := svc.GenerateLinks(context.Background(), GenerateLinksCommand{
		Config:         validConfig(),
		GroupID:        "Shop A",
		RestaurantName: "店舗A",
		Count:          3,
	})
	if err != nil {
		t.Fatalf("発行に失敗: %v", err)
	}
	if batch.GroupID != "shop-a" {
		t.Fatalf("グループIDが %q (想定: shop-a)", batch.GroupID)
	}
	if len(batch.Tokens) != 3 {
		t.Fatalf("トークンが %d 件 (想定: 3)", len(batch.Tokens))
	}

	seen := make(map[string]struct{})
	for _, token := range batch.Tokens {
		if _, dup := seen[token]; dup {
			t.Fatalf("トークンが重複: %s", token)
		}
		seen[token] = struct{}{}

		meta, ok := configs.saved[token]
		if !ok {
			t.Fatalf("トークン %s の設定が保存されていない", token)
		}
		if meta == nil || meta.GroupID != "shop-a" || meta.RestaurantName != "店舗A" {
			t.Fatalf("トークン %s のメタ情報が不正: %+v", token, meta)
		}
	}

	if batch.Group == nil || len(batch.Group.InterviewIDs) != 3 {
		t.Fatalf("グループへのマージ結果が不正: %+v", batch.Group)
	}
}

func TestLinkService_GenerateLinksAccumulates(t *testing.T) {
	configs := &fakeConfigRepo{}
	groups := &fakeGroupRepo{}
	svc := NewLinkService(configs, groups)
	ctx := context.Background()

	cmd := GenerateLinksCommand{Config: validConfig(), GroupID: "shop-a", Count: 2}
	if _, err := svc.GenerateLinks(ctx, cmd); err != nil {
		t.Fatalf("1回目の発行に失敗: %v", err)
	}
	batch, err := svc.GenerateLinks(ctx, cmd)
	if err != nil {
		t.Fatalf("2回目の発行に失敗: %v", err)
	}

	if len(batch.Group.InterviewIDs) != 4 {
		t.Fatalf("グループ内トークンが %d 件 (想定: 4)", len(batch.Group.InterviewIDs))
	}
}

func TestLinkService_GenerateLinksValidation(t *testing.T) {
	svc := NewLinkService(&fakeConfigRepo{}, &fakeGroupRepo{})
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  GenerateLinksCommand
	}{
		{name: "設定不正", cmd: GenerateLinksCommand{GroupID: "g", Count: 1}},
		{name: "グループID欠落", cmd: GenerateLinksCommand{Config: validConfig(), Count: 1}},
		{name: "発行数ゼロ", cmd: GenerateLinksCommand{Config: validConfig(), GroupID: "g", Count: 0}},
		{name: "発行数超過", cmd: GenerateLinksCommand{Config: validConfig(), GroupID: "g", Count: maxLinksPerBatch + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.GenerateLinks(ctx, tc.cmd); err == nil {
				t.Fatal("エラーが返らなかった")
			}
		})
	}
}

func TestLinkService_SaveConfig(t *testing.T) {
	configs := &fakeConfigRepo{}
	svc := NewLinkService(configs, &fakeGroupRepo{})
	ctx := context.Background()

	if err := svc.SaveConfig(ctx, "  ", validConfig(), nil); err == nil {
		t.Fatal("空トークンでエラーが返らなかった")
	}
	if err := svc.SaveConfig(ctx, "token-1", interview.InterviewConfig{}, nil); err == nil {
		t.Fatal("不正な設定でエラーが返らなかった")
	}
	if err := svc.SaveConfig(ctx, " token-1 ", validConfig(), nil); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}
	if _, ok := configs.saved["token-1"]; !ok {
		t.Fatal("トリム済みトークンで保存されていない")
	}
}
