package protocol

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator 生成请求关联 ID。实现需可被单个客户端实例并发调用。
type IDGenerator interface {
	NextID(ctx context.Context) (string, error)
}

// CounterIDGenerator 实例内单调递增：8 位随机十进制前缀 + 12 位十进制计数，
// 整体是 20 位定宽十进制串。前缀在构造时确定，之后不再读取任何全局状态。
type CounterIDGenerator struct {
	prefix string
	n      atomic.Uint64
}

func NewCounterIDGenerator() *CounterIDGenerator {
	u := uuid.New()
	prefix := fmt.Sprintf("%08d", binary.BigEndian.Uint32(u[:4])%100000000)
	return &CounterIDGenerator{prefix: prefix}
}

func (g *CounterIDGenerator) NextID(context.Context) (string, error) {
	return fmt.Sprintf("%s%012d", g.prefix, g.n.Add(1)), nil
}

// UUIDGenerator 每次返回一个随机 UUID。
type UUIDGenerator struct{}

func (UUIDGenerator) NextID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

// TimestampFormat 宿主早期使用的时间戳 ID 格式，精确到微秒。
const TimestampFormat = "20060102150405.000000"

// TimestampIDGenerator 兼容旧格式，连续快速调用时可能重复。
type TimestampIDGenerator struct {
	Now func() time.Time
}

func (g TimestampIDGenerator) NextID(context.Context) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return now().Format(TimestampFormat), nil
}
