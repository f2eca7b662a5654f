package messaging

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
)

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

// Publisher owns an amqp connection and sends changes under a prefix, the
// region the service runs for.
type Publisher struct {
	connection *amqp.Connection
	prefix     string
}

// NewPublisher dials url and declares topics.
func NewPublisher(config RabbitConfig, topics ...ChangeTopic) (*Publisher, error) {
	conn, err := amqp.Dial(config.Url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	for _, topic := range topics {
		if err = DefineTopic(ch, config.Prefix, topic); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return &Publisher{connection: conn, prefix: config.Prefix}, nil
}

func (p *Publisher) Send(topic ChangeTopic, data any) error {
	return SendChange(p.connection, p.prefix, topic, data)
}

func (p *Publisher) Connection() *amqp.Connection {
	return p.connection
}

func (p *Publisher) Prefix() string {
	return p.prefix
}

func (p *Publisher) Close() error {
	return p.connection.Close()
}
