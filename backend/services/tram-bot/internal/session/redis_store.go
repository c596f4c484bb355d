package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"metrotram/backend/services/tram-bot/internal/locale"
)

// RedisStore keeps sessions in redis so several bot replicas share them.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore returns redis-backed store.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(userID int64) string {
	return fmt.Sprintf("tram-bot:session:%d", userID)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, userID int64) (Session, bool, error) {
	result, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("session: get %d: %w", userID, err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(result), &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: decode %d: %w", userID, err)
	}
	sess.Locale = locale.Parse(sess.LangCode)
	return sess, true, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	sess.LangCode = sess.Locale.Code()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(sess.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: save %d: %w", sess.UserID, err)
	}
	return nil
}
