package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"go-wxhook/internal/model"
)

// AMQPPublisher 是 *amqp.Channel 的发布能力，便于测试替换。
type AMQPPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventPublisher 把解析后的推送消息转发到 RabbitMQ，routing key 为消息种类。
type EventPublisher struct {
	ch       AMQPPublisher
	exchange string
}

func NewEventPublisher(ch AMQPPublisher, exchange string) *EventPublisher {
	return &EventPublisher{
		ch:       ch,
		exchange: exchange,
	}
}

// Publish 发布一条消息。消息体仍可被 protocol.ResolveMessage 识别。
func (p *EventPublisher) Publish(ctx context.Context, msg model.DomainMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		p.exchange,
		msg.MessageKind(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    messageID(msg),
			Type:         msg.MessageKind(),
		})
}

func messageID(msg model.DomainMessage) string {
	switch m := msg.(type) {
	case model.TextMessage:
		return m.ID
	case model.PictureMessage:
		return m.ID
	case model.HeartBeat:
		return m.ID
	default:
		return ""
	}
}
