// Package store provides alternative session backends for deployments where
// the default file store is not enough: Redis, MongoDB, and PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/session"
)

// RedisStore implements session storage using Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ session.Store = (*RedisStore)(nil)

// RedisConfig holds Redis configuration for sessions.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisStore creates a new Redis-based session store.
func NewRedisStore(config *RedisConfig) *RedisStore {
	if config == nil {
		config = &RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "slidecraft:session:",
			TTL:    7 * 24 * time.Hour,
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

func (s *RedisStore) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if err := session.ValidateID(sess.ID); err != nil {
		return err
	}
	sess.Touch()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	if err := s.client.Set(ctx, s.sessionKey(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := s.client.SAdd(ctx, s.setKey(), sess.ID).Err(); err != nil {
		return fmt.Errorf("index session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*session.Session, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, s.sessionKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) List(ctx context.Context) ([]session.Summary, error) {
	ids, err := s.client.SMembers(ctx, s.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var out []session.Summary
	for _, id := range ids {
		sess, err := s.Load(ctx, id)
		if err != nil {
			// expired or corrupt entry; drop it from the index
			s.client.SRem(ctx, s.setKey(), id)
			continue
		}
		out = append(out, session.Summary{
			ID:      sess.ID,
			Topic:   sess.Topic,
			Style:   sess.StyleName,
			Slides:  len(sess.Slides),
			Updated: sess.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Updated > out[j].Updated })
	return out, nil
}

func (s *RedisStore) Latest(ctx context.Context) (*session.Session, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return s.Load(ctx, summaries[0].ID)
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := session.ValidateID(id); err != nil {
		return false, err
	}
	removed, err := s.client.Del(ctx, s.sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	if err := s.client.SRem(ctx, s.setKey(), id).Err(); err != nil {
		return false, fmt.Errorf("update session index: %w", err)
	}
	return removed > 0, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) sessionKey(id string) string {
	return s.prefix + id
}

func (s *RedisStore) setKey() string {
	return s.prefix + "set"
}
