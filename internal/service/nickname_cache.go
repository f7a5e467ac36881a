package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NicknameCache 群昵称缓存。
type NicknameCache interface {
	Get(ctx context.Context, roomID, wxid string) (nick string, ok bool, err error)
	Set(ctx context.Context, roomID, wxid, nick string) error
}

// RedisNicknameCache 每个群一个 Hash：key=prefix+roomID，field=wxid。
type RedisNicknameCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisNicknameCache(client *redis.Client, prefix string, ttl time.Duration) *RedisNicknameCache {
	return &RedisNicknameCache{
		client:    client,
		keyPrefix: prefix,
		ttl:       ttl,
	}
}

func (c *RedisNicknameCache) Get(ctx context.Context, roomID, wxid string) (string, bool, error) {
	if c.client == nil {
		return "", false, nil
	}
	nick, err := c.client.HGet(ctx, c.keyPrefix+roomID, wxid).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return nick, true, nil
}

func (c *RedisNicknameCache) Set(ctx context.Context, roomID, wxid, nick string) error {
	if c.client == nil {
		return nil
	}
	key := c.keyPrefix + roomID
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, wxid, nick)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
