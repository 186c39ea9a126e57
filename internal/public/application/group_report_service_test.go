package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
	"github.com/amint/interview-hub/api/internal/prompts"
)

type fakeGroupRepo struct {
	groups map[string]*interview.Group
}

func (r *fakeGroupRepo) FindByID(_ context.Context, groupID string) (*interview.Group, error) {
	group, ok := r.groups[groupID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return group, nil
}

type fakeSummaryRepo struct {
	summaries map[string]*interview.Summary
}

func (r *fakeSummaryRepo) Upsert(_ context.Context, summary interview.Summary) error {
	r.summaries[summary.InterviewID] = &summary
	return nil
}

func (r *fakeSummaryRepo) FindByID(_ context.Context, interviewID string) (*interview.Summary, error) {
	summary, ok := r.summaries[interviewID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return summary, nil
}

type fakeGroupSummaryRepo struct {
	cached map[string]*interview.GroupSummary
}

func (r *fakeGroupSummaryRepo) Upsert(_ context.Context, summary interview.GroupSummary) error {
	r.cached[summary.GroupID] = &summary
	return nil
}

func (r *fakeGroupSummaryRepo) FindByID(_ context.Context, groupID string) (*interview.GroupSummary, error) {
	summary, ok := r.cached[groupID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return summary, nil
}

type countingGenerator struct {
	reply       string
	calls       int
	lastUserMsg string
}

func (g *countingGenerator) Generate(_ context.Context, _, userPrompt string) (string, error) {
	g.calls++
	g.lastUserMsg = userPrompt
	return g.reply, nil
}

func newTestGroupReportService(gen *countingGenerator, groups *fakeGroupRepo, summaries *fakeSummaryRepo, cache *fakeGroupSummaryRepo) GroupReportService {
	return NewGroupReportService(GroupReportServiceConfig{
		Groups:    groups,
		Summaries: summaries,
		Cache:     cache,
		Generator: gen,
		Templates: prompts.Default(),
	})
}

func TestGroupReportService_BuildsAndCaches(t *testing.T) {
	groups := &fakeGroupRepo{groups: map[string]*interview.Group{
		"shop-a": {GroupID: "shop-a", RestaurantName: "店舗A", InterviewIDs: []string{"t1", "t2", "t3"}},
	}}
	summaries := &fakeSummaryRepo{summaries: map[string]*interview.Summary{
		"t1": {InterviewID: "t1", Summary: "レポート1"},
		"t3": {InterviewID: "t3", Summary: "レポート3"},
	}}
	cache := &fakeGroupSummaryRepo{cached: map[string]*interview.GroupSummary{}}
	gen := &countingGenerator{reply: "グローバルレポート"}
	svc := newTestGroupReportService(gen, groups, summaries, cache)
	ctx := context.Background()

	built, err := svc.GetOrBuild(ctx, "shop-a", false)
	if err != nil {
		t.Fatalf("生成に失敗: %v", err)
	}
	if built.Summary != "グローバルレポート" {
		t.Fatalf("レポート本文が %q", built.Summary)
	}
	if gen.calls != 1 {
		t.Fatalf("LLM 呼び出しが %d 回 (想定: 1)", gen.calls)
	}

	// レポート未保存の t2 はスキップされ、プロンプトには存在する2件だけが入る。
	if !strings.Contains(gen.lastUserMsg, "レポート1") || !strings.Contains(gen.lastUserMsg, "レポート3") {
		t.Fatalf("プロンプトに個別レポートが含まれない: %q", gen.lastUserMsg)
	}
	if strings.Contains(gen.lastUserMsg, "t2") {
		t.Fatalf("レポート未保存のトークンがプロンプトに含まれる: %q", gen.lastUserMsg)
	}

	if _, ok := cache.cached["shop-a"]; !ok {
		t.Fatal("生成結果がキャッシュされていない")
	}

	// 2回目はキャッシュが返り、LLM は呼ばれない。
	cachedResult, err := svc.GetOrBuild(ctx, "shop-a", false)
	if err != nil {
		t.Fatalf("キャッシュ取得に失敗: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("キャッシュヒット時に LLM が呼ばれた: %d 回", gen.calls)
	}
	if cachedResult.Summary != built.Summary {
		t.Fatal("キャッシュ結果が生成結果と一致しない")
	}
}

func TestGroupReportService_RefreshBypassesCache(t *testing.T) {
	groups := &fakeGroupRepo{groups: map[string]*interview.Group{
		"shop-a": {GroupID: "shop-a", InterviewIDs: []string{"t1"}},
	}}
	summaries := &fakeSummaryRepo{summaries: map[string]*interview.Summary{
		"t1": {InterviewID: "t1", Summary: "レポート1"},
	}}
	cache := &fakeGroupSummaryRepo{cached: map[string]*interview.GroupSummary{
		"shop-a": {GroupID: "shop-a", Summary: "古いレポート", CreatedAt: time.Now().Add(-time.Hour)},
	}}
	gen := &countingGenerator{reply: "新しいレポート"}
	svc := newTestGroupReportService(gen, groups, summaries, cache)

	built, err := svc.GetOrBuild(context.Background(), "shop-a", true)
	if err != nil {
		t.Fatalf("再生成に失敗: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("LLM 呼び出しが %d 回 (想定: 1)", gen.calls)
	}
	if built.Summary != "新しいレポート" {
		t.Fatalf("レポート本文が %q (想定: 新しいレポート)", built.Summary)
	}
	if cache.cached["shop-a"].Summary != "新しいレポート" {
		t.Fatal("キャッシュが更新されていない")
	}
}

func TestGroupReportService_NoSummaries(t *testing.T) {
	groups := &fakeGroupRepo{groups: map[string]*interview.Group{
		"shop-a": {GroupID: "shop-a", InterviewIDs: []string{"t1", "t2"}},
	}}
	summaries := &fakeSummaryRepo{summaries: map[string]*interview.Summary{}}
	cache := &fakeGroupSummaryRepo{cached: map[string]*interview.GroupSummary{}}
	gen := &countingGenerator{reply: "x"}
	svc := newTestGroupReportService(gen, groups, summaries, cache)

	if _, err := svc.GetOrBuild(context.Background(), "shop-a", false); !errors.Is(err, ErrNoSummaries) {
		t.Fatalf("レポートなしグループが %v (想定: %v)", err, ErrNoSummaries)
	}
	if gen.calls != 0 {
		t.Fatalf("LLM が呼ばれた: %d 回", gen.calls)
	}
}

func TestGroupReportService_UnknownGroup(t *testing.T) {
	svc := newTestGroupReportService(
		&countingGenerator{reply: "x"},
		&fakeGroupRepo{groups: map[string]*interview.Group{}},
		&fakeSummaryRepo{summaries: map[string]*interview.Summary{}},
		&fakeGroupSummaryRepo{cached: map[string]*interview.GroupSummary{}},
	)

	if _, err := svc.GetOrBuild(context.Background(), "missing", false); !errors.Is(err, interview.ErrNotFound) {
		t.Fatalf("未知のグループが %v (想定: %v)", err, interview.ErrNotFound)
	}
}

func TestGroupReportService_GetCached(t *testing.T) {
	cache := &fakeGroupSummaryRepo{cached: map[string]*interview.GroupSummary{
		"shop-a": {GroupID: "shop-a", Summary: "キャッシュ済み"},
	}}
	svc := newTestGroupReportService(
		&countingGenerator{reply: "x"},
		&fakeGroupRepo{groups: map[string]*interview.Group{}},
		&fakeSummaryRepo{summaries: map[string]*interview.Summary{}},
		cache,
	)

	cached, err := svc.GetCached(context.Background(), "shop-a")
	if err != nil {
		t.Fatalf("キャッシュ取得に失敗: %v", err)
	}
	if cached.Summary != "キャッシュ済み" {
		t.Fatalf("キャッシュ本文が %q", cached.Summary)
	}

	if _, err := svc.GetCached(context.Background(), "missing"); !errors.Is(err, interview.ErrNotFound) {
		t.Fatalf("未生成キャッシュが %v (想定: %v)", err, interview.ErrNotFound)
	}
}
