package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
)

// EventSource 推送事件来源，push.Stream 实现了它。
type EventSource interface {
	Next() (model.PushEvent, error)
	Close() error
}

// MessageSink 接收每条领域消息的旁路，例如 EventPublisher。
type MessageSink interface {
	Publish(ctx context.Context, msg model.DomainMessage) error
}

type (
	TextHandler      func(ctx context.Context, msg model.TextMessage, id model.Identity)
	PictureHandler   func(ctx context.Context, msg model.PictureMessage)
	HeartBeatHandler func(ctx context.Context, msg model.HeartBeat)
)

// Dispatcher 从推送通道读取事件并按消息种类分发。
type Dispatcher struct {
	source EventSource
	sink   MessageSink
	logger *zap.Logger

	onText      TextHandler
	onPicture   PictureHandler
	onHeartBeat HeartBeatHandler
}

func NewDispatcher(source EventSource, l *zap.Logger) *Dispatcher {
	return &Dispatcher{
		source: source,
		logger: logger.Or(l).With(zap.String("component", "dispatcher")),
	}
}

func (d *Dispatcher) OnText(h TextHandler) *Dispatcher           { d.onText = h; return d }
func (d *Dispatcher) OnPicture(h PictureHandler) *Dispatcher     { d.onPicture = h; return d }
func (d *Dispatcher) OnHeartBeat(h HeartBeatHandler) *Dispatcher { d.onHeartBeat = h; return d }

// WithSink 设置旁路，nil 表示不转发。
func (d *Dispatcher) WithSink(s MessageSink) *Dispatcher { d.sink = s; return d }

// Run 阻塞读取直到通道关闭（返回 nil）或 ctx 取消（返回 ctx.Err()）。
// 无法归类的文本帧只记录原文，不中断读取；不支持的帧类型和传输失败直接返回。
func (d *Dispatcher) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = d.source.Close() })
	defer stop()

	for {
		ev, err := d.source.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var ce *protocol.ClassifyError
			if errors.As(err, &ce) {
				d.logger.Warn("无法识别的推送", zap.String("raw", ce.Raw))
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch ev.Kind {
		case model.EventClosed:
			d.logger.Info("推送通道已关闭")
			return nil
		case model.EventPing, model.EventPong:
			d.logger.Debug("控制帧", zap.Stringer("kind", ev.Kind), zap.ByteString("payload", ev.Payload))
		case model.EventDomain:
			d.dispatch(ctx, ev.Message)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, msg model.DomainMessage) {
	switch m := msg.(type) {
	case model.TextMessage:
		if d.onText != nil {
			d.onText(ctx, m, model.ResolveIdentity(m))
		}
	case model.PictureMessage:
		if d.onPicture != nil {
			d.onPicture(ctx, m)
		}
	case model.HeartBeat:
		if d.onHeartBeat != nil {
			d.onHeartBeat(ctx, m)
		}
	}

	if d.sink != nil {
		if err := d.sink.Publish(ctx, msg); err != nil {
			d.logger.Warn("转发消息失败", zap.String("kind", msg.MessageKind()), zap.Error(err))
		}
	}
}
