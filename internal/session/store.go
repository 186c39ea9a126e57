// Package session は進行中の面接セッションの一時保管を提供する。
// セッションは耐久データではなく、TTL 切れで消えることを前提とする。
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amint/interview-hub/api/internal/interview"
)

var (
	// ErrNotFound は存在しない(または期限切れの)セッションを表す。
	ErrNotFound = errors.New("セッションが見つかりません")
	// ErrInvalidStoreType は未対応のドライバ指定を表す。
	ErrInvalidStoreType = errors.New("未対応のセッションストア種別です")
	// ErrInvalidConfig はドライバに必要な依存の欠落を表す。
	ErrInvalidConfig = errors.New("セッションストアの設定が不足しています")
)

// Store はセッションの保存操作を定義する。
type Store interface {
	// Create は新規セッションを保存する。
	Create(ctx context.Context, sess *interview.Session) error

	// Get は ID でセッションを取得する。期限切れ・未登録は ErrNotFound。
	Get(ctx context.Context, id string) (*interview.Session, error)

	// Update は既存セッションを上書き保存し、TTL を延長する。
	Update(ctx context.Context, sess *interview.Session) error

	// Delete はセッションを破棄する。
	Delete(ctx context.Context, id string) error

	// Close はストアの資源を解放する。
	Close() error
}

// StoreType はセッションストアのドライバ種別。
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// StoreOption はドライバ生成時の可変設定。
type StoreOption func(*storeConfig)

// WithRedisClient は Redis ドライバが使うクライアントを指定する。
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) { c.redisClient = client }
}

// WithTTL はセッションの生存期間を指定する。
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) { c.ttl = ttl }
}

const defaultTTL = 2 * time.Hour

// NewStore は種別に応じたセッションストアを生成する。
// 単一プロセス構成では memory、複数インスタンス構成では redis を使う。
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	ttl := config.ttl
	if ttl <= 0 {
		ttl = defaultTTL
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(ttl), nil
	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisStore(config.redisClient, ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}
