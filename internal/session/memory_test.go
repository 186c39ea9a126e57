package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

func newTestSession(t *testing.T, id string) *interview.Session {
	t.Helper()
	sess, err := interview.NewSession(id, "token-"+id, interview.InterviewConfig{
		Objective: "目的",
		Tone:      "丁寧",
		Questions: []string{"質問1"},
		AvatarID:  "avatar-1",
		VoiceID:   "voice-1",
	})
	if err != nil {
		t.Fatalf("セッション生成に失敗: %v", err)
	}
	return sess
}

func TestNewStore_UnknownType(t *testing.T) {
	if _, err := NewStore(StoreType("etcd")); !errors.Is(err, ErrInvalidStoreType) {
		t.Fatalf("未知の種別が %v (想定: %v)", err, ErrInvalidStoreType)
	}
}

func TestNewStore_RedisRequiresClient(t *testing.T) {
	if _, err := NewStore(StoreTypeRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("クライアント未指定が %v (想定: %v)", err, ErrInvalidConfig)
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("ストア生成に失敗: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	sess := newTestSession(t, "s1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("取得に失敗: %v", err)
	}
	if got.Token != sess.Token {
		t.Fatalf("取得結果が別のセッション: %q", got.Token)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("未登録 ID が %v (想定: %v)", err, ErrNotFound)
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store, err := NewStore(StoreTypeMemory, WithTTL(10*time.Millisecond))
	if err != nil {
		t.Fatalf("ストア生成に失敗: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Create(ctx, newTestSession(t, "s1")); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("期限切れセッションが %v (想定: %v)", err, ErrNotFound)
	}
}

func TestMemoryStore_UpdateRefreshesTTL(t *testing.T) {
	store, err := NewStore(StoreTypeMemory, WithTTL(50*time.Millisecond))
	if err != nil {
		t.Fatalf("ストア生成に失敗: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	sess := newTestSession(t, "s1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}

	// TTL の半分ごとに更新し続ければ期限切れにならない。
	for i := 0; i < 4; i++ {
		time.Sleep(25 * time.Millisecond)
		if err := store.Update(ctx, sess); err != nil {
			t.Fatalf("%d 回目の更新に失敗: %v", i+1, err)
		}
	}

	if _, err := store.Get(ctx, "s1"); err != nil {
		t.Fatalf("更新し続けたセッションが取得できない: %v", err)
	}
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("ストア生成に失敗: %v", err)
	}
	defer store.Close()

	if err := store.Update(context.Background(), newTestSession(t, "s1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("未登録セッションの更新が %v (想定: %v)", err, ErrNotFound)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("ストア生成に失敗: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Create(ctx, newTestSession(t, "s1")); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("削除に失敗: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("削除済みセッションが %v (想定: %v)", err, ErrNotFound)
	}
}
