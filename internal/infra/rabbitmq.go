package infra

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConfig 描述推送事件转发用的 MQ 连接与拓扑。
// RoutingKey 是绑定到 Queue 的消息种类，默认只收文字消息。
type RabbitMQConfig struct {
	Enable     bool   `mapstructure:"enable"`
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	Queue      string `mapstructure:"queue"`
	RoutingKey string `mapstructure:"routing_key"`
}

// NewRabbitMQ 建立连接并返回 Connection。
func NewRabbitMQ(cfg RabbitMQConfig) (*amqp.Connection, error) {
	return amqp.Dial(cfg.URL)
}

// PrepareRabbitTopology 在指定 channel 上声明交换机、队列并绑定（幂等）。
func PrepareRabbitTopology(ch *amqp.Channel, cfg RabbitMQConfig) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return err
	}

	if cfg.Queue == "" {
		return nil
	}
	q, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}

	return ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
}
