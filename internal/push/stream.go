package push

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
)

const (
	writeTimeout = 10 * time.Second // 控制帧写超时
	readLimit    = int64(1 << 20)   // 单帧最大 1MB
)

// frameResult 读循环交给 Next 的一个帧或读错误。
type frameResult struct {
	frame protocol.Frame
	err   error
}

// Stream 宿主推送通道，单消费者按需拉取，不可重放。
// gorilla 在读数据帧时内部处理控制帧，这里通过 handler 把控制帧也按到达顺序交出。
type Stream struct {
	conn   *websocket.Conn
	frames chan frameResult
	done   chan struct{}
	logger *zap.Logger

	closeOnce sync.Once
	finished  bool
}

type options struct {
	dialer    *websocket.Dialer
	readLimit int64
	logger    *zap.Logger
}

type Option func(*options)

func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

func WithReadLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.readLimit = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Dial 连接宿主推送通道，url 形如 ws://127.0.0.1:5555。
func Dial(ctx context.Context, url string, opts ...Option) (*Stream, error) {
	o := options{dialer: websocket.DefaultDialer, readLimit: readLimit}
	for _, opt := range opts {
		opt(&o)
	}
	conn, _, err := o.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &protocol.TransportError{Op: "push_dial", Err: err}
	}
	return newStream(conn, o), nil
}

func newStream(conn *websocket.Conn, o options) *Stream {
	s := &Stream{
		conn:   conn,
		frames: make(chan frameResult),
		done:   make(chan struct{}),
		logger: logger.Or(o.logger).With(zap.String("component", "push")),
	}
	conn.SetReadLimit(o.readLimit)
	conn.SetPingHandler(func(appData string) error {
		// 保持 gorilla 默认行为：先回 pong，再把 ping 交给消费者
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeTimeout))
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			s.logger.Warn("回复 pong 失败", zap.Error(err))
		}
		s.deliver(frameResult{frame: protocol.Frame{Type: websocket.PingMessage, Data: []byte(appData)}})
		return nil
	})
	conn.SetPongHandler(func(appData string) error {
		s.deliver(frameResult{frame: protocol.Frame{Type: websocket.PongMessage, Data: []byte(appData)}})
		return nil
	})
	conn.SetCloseHandler(func(code int, text string) error {
		s.logger.Info("宿主关闭推送通道", zap.Int("code", code), zap.String("reason", text))
		message := websocket.FormatCloseMessage(code, "")
		_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeTimeout))
		s.deliver(frameResult{frame: protocol.Frame{Type: websocket.CloseMessage, Data: []byte(text)}})
		return nil
	})
	go s.readLoop()
	return s
}

// deliver 把帧交给 Next；Close 之后直接丢弃。
func (s *Stream) deliver(r frameResult) bool {
	select {
	case s.frames <- r:
		return true
	case <-s.done:
		return false
	}
}

// readLoop 是连接上唯一的读者。
func (s *Stream) readLoop() {
	defer close(s.frames)
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				// Closed 事件已由 close handler 交出
				return
			}
			s.deliver(frameResult{err: &protocol.TransportError{Op: "push_read", Err: err}})
			return
		}
		if !s.deliver(frameResult{frame: protocol.Frame{Type: mt, Data: data}}) {
			return
		}
	}
}

// Next 阻塞直到下一个帧到达并返回其归类结果。
// 通道关闭或读失败之后返回 io.EOF。分类错误不会终止通道，调用方可以继续读。
func (s *Stream) Next() (model.PushEvent, error) {
	if s.finished {
		return model.PushEvent{}, io.EOF
	}
	r, ok := <-s.frames
	if !ok {
		s.finished = true
		return model.PushEvent{}, io.EOF
	}
	if r.err != nil {
		s.finished = true
		return model.PushEvent{}, r.err
	}
	ev, err := protocol.Classify(r.frame)
	if err == nil && ev.Kind == model.EventClosed {
		s.finished = true
	}
	return ev, err
}

// Close 放弃通道，未读的帧被丢弃。可重复调用。
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
		err = s.conn.Close()
	})
	return err
}
