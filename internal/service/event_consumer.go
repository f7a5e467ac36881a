package service

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
)

// AMQPConsumer 是 *amqp.Channel 的消费能力。
type AMQPConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// MessageHandler 处理一条领域消息。
type MessageHandler func(ctx context.Context, msg model.DomainMessage) error

// EventConsumer 消费 EventPublisher 转发的消息，用同一套结构解析后交给 handler。
type EventConsumer struct {
	ch      AMQPConsumer
	queue   string
	handler MessageHandler
	logger  *zap.Logger
}

func NewEventConsumer(ch AMQPConsumer, queue string, handler MessageHandler, l *zap.Logger) *EventConsumer {
	return &EventConsumer{
		ch:      ch,
		queue:   queue,
		handler: handler,
		logger:  logger.Or(l).With(zap.String("component", "event_consumer"), zap.String("queue", queue)),
	}
}

// Start 启动消费循环（非阻塞），ctx 取消后退出。
func (c *EventConsumer) Start(ctx context.Context) error {
	deliveries, err := c.ch.Consume(
		c.queue,
		"",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				c.handleDelivery(ctx, msg)
			}
		}
	}()
	return nil
}

func (c *EventConsumer) handleDelivery(parentCtx context.Context, d amqp.Delivery) {
	msg, err := protocol.ResolveMessage(string(d.Body))
	if err != nil {
		c.logger.Warn("无法解析 MQ 消息，丢弃", zap.String("raw", string(d.Body)), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(parentCtx, 5*time.Second)
	defer cancel()

	if err := c.handler(ctx, msg); err != nil {
		c.logger.Error("处理消息失败", zap.String("msg_id", d.MessageId), zap.Error(err))
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
