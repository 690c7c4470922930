package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

const defaultConfirmedCountTTL = 30 * time.Second

// RegistrationCountCache はイベントごとの確定済み登録数のキャッシュを管理する
// 登録・キャンセルのたびに無効化し、ダッシュボード表示のDB負荷を抑える
type RegistrationCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRegistrationCountCache は新しいRegistrationCountCacheインスタンスを作成する
// ttl が0以下の場合はデフォルトのTTLを使う
func NewRegistrationCountCache(client *redis.Client, ttl time.Duration) *RegistrationCountCache {
	if ttl <= 0 {
		ttl = defaultConfirmedCountTTL
	}
	return &RegistrationCountCache{client: client, ttl: ttl}
}

// GetConfirmedCount はイベントの確定済み登録数をキャッシュから取得する
func (c *RegistrationCountCache) GetConfirmedCount(ctx context.Context, eventID string) (int, error) {
	key := c.confirmedCountKey(eventID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetConfirmedCount はイベントの確定済み登録数をキャッシュに保存する
func (c *RegistrationCountCache) SetConfirmedCount(ctx context.Context, eventID string, count int) error {
	key := c.confirmedCountKey(eventID)
	err := c.client.Set(ctx, key, count, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *RegistrationCountCache) Invalidate(ctx context.Context, eventID string) error {
	key := c.confirmedCountKey(eventID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *RegistrationCountCache) confirmedCountKey(eventID string) string {
	return fmt.Sprintf("registrations:confirmed:%s", eventID)
}
