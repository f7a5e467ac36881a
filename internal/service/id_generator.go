package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisIDGenerator 使用 Redis INCR 生成请求关联 ID，
// 多个进程共用同一宿主时也不会撞号。
type RedisIDGenerator struct {
	client *redis.Client
	key    string
	prefix string
}

func NewRedisIDGenerator(client *redis.Client, key, prefix string) *RedisIDGenerator {
	return &RedisIDGenerator{client: client, key: key, prefix: prefix}
}

func (g *RedisIDGenerator) NextID(ctx context.Context) (string, error) {
	if g.client == nil {
		return "", errors.New("redis client is nil")
	}
	val, err := g.client.Incr(ctx, g.key).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%012d", g.prefix, val), nil
}
