package messaging

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes topic in the background. Deliveries handled without
// error are acked, failing ones are dropped without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, filter func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			handleDelivery(d, topic, filter)
		}
		log.Info().Str("topic", string(topic)).Msg("consumer closed")
	}(fc)
	return nil
}

func handleDelivery(d amqp.Delivery, topic ChangeTopic, filter func(amqp.Delivery) error) {
	if err := filter(d); err != nil {
		log.Error().Err(err).Str("topic", string(topic)).Msg("error processing message")
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Warn().Err(nackErr).Msg("nack failed")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Warn().Err(err).Msg("ack failed")
	}
}
