package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amint/interview-hub/api/internal/interview"
)

const sessionKeyPrefix = "interview-session:"

// redisStore は複数インスタンス構成向けの Redis 実装。
// TTL はキーの有効期限で強制し、更新のたびに延長する。
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisStore(client *redis.Client, ttl time.Duration) *redisStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) key(id string) string {
	return sessionKeyPrefix + id
}

func (s *redisStore) Create(ctx context.Context, sess *interview.Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sess.ID), val, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (*interview.Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess interview.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisStore) Update(ctx context.Context, sess *interview.Session) error {
	exists, err := s.client.Exists(ctx, s.key(sess.ID)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sess.ID), val, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
