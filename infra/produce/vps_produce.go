package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	VpsEventsExchange      = "vps.events"
	VpsLifecycleQueue      = "vps.lifecycle"
	VpsLifecycleRoutingKey = "vps.lifecycle"
)

type VpsService struct {
	channel *amqp.Channel
}

// LifecycleEventMessage is the wire form of one audit event; the consumer
// persists it to the vps_lifecycle_events table.
type LifecycleEventMessage struct {
	InstanceID string `json:"instance_id"`
	UserID     string `json:"user_id"`
	ServerName string `json:"server_name"`
	Action     string `json:"action"`
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
}

func InitVpsService(channel *amqp.Channel) *VpsService {
	service := &VpsService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		VpsEventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare VPS events exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		VpsLifecycleQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare VPS lifecycle queue: " + err.Error())
	}

	err = channel.QueueBind(
		VpsLifecycleQueue,
		VpsLifecycleRoutingKey,
		VpsEventsExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind VPS lifecycle queue: " + err.Error())
	}

	return service
}

func (s *VpsService) PublishLifecycleEvent(ctx context.Context, message LifecycleEventMessage) error {
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().Unix()
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		VpsEventsExchange,
		VpsLifecycleRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
