package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storeorders/internal/domain/checkout"
	repo "storeorders/internal/repository"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "checkout:session:"
	// 同じカートへの同時更新で WATCH が外れたときのやり直し回数
	maxUpdateAttempts = 5
)

// RedisStore はチェックアウトセッションをJSONでRedisに置く。
// 保存のたびにTTLを延ばすので、触られなくなったカートは自然に消える。
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewClient は接続確認済みのクライアントを返す
func NewClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Save(ctx context.Context, sess checkout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id string) (checkout.Session, error) {
	return find(ctx, s.client, id)
}

// Update は WATCH したキーを読み、MULTI/EXEC で書き戻す。
// EXEC 前に他のリクエストが同じカートを書いたら TxFailedErr になるので読み直す。
func (s *RedisStore) Update(ctx context.Context, id string, fn func(sess *checkout.Session) error) (checkout.Session, error) {
	var out checkout.Session
	k := key(id)

	txf := func(tx *redis.Tx) error {
		sess, err := find(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&sess); err != nil {
			return err
		}
		data, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, s.ttl)
			return nil
		})
		if err == nil {
			out = sess
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return checkout.Session{}, err
		}
		return out, nil
	}
	return checkout.Session{}, repo.ErrConflict
}

// Delete は存在しなくてもエラーにしない
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// getter は *redis.Client と WATCH 中の *redis.Tx の両方で読むため
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func find(ctx context.Context, c getter, id string) (checkout.Session, error) {
	data, err := c.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return checkout.Session{}, repo.ErrNotFound
	}
	if err != nil {
		return checkout.Session{}, fmt.Errorf("get session: %w", err)
	}

	var sess checkout.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return checkout.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func key(id string) string {
	return keyPrefix + id
}
