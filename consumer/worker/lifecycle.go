package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/datatypes"

	"github.com/nimbuslabs/nimbus-vps-service/entity"
	"github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/infra/produce"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
)

// LifecycleConsumer drains the vps.lifecycle queue into the audit table.
type LifecycleConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewLifecycleConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *LifecycleConsumer {
	return &LifecycleConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

func (c *LifecycleConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.VpsLifecycleQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register lifecycle consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Lifecycle Consumer] Started listening on queue: %s", produce.VpsLifecycleQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Lifecycle Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Lifecycle Consumer] Channel closed")
					return
				}
				c.handleLifecycleEvent(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *LifecycleConsumer) handleLifecycleEvent(ctx context.Context, msg amqp.Delivery) {
	var payload produce.LifecycleEventMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	instanceID, err := uuid.Parse(payload.InstanceID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle Consumer] Invalid instance ID: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle Consumer] Invalid user ID: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	event := &entity.VpsLifecycleEvent{
		ID:         uuid.New(),
		InstanceID: instanceID,
		UserID:     userID,
		Action:     payload.Action,
		Status:     payload.Status,
		Payload:    datatypes.JSON(msg.Body),
		OccurredAt: time.Unix(payload.Timestamp, 0).UTC(),
		CreatedAt:  time.Now().UTC(),
	}

	maxRetries := 3
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = c.repository.LifecycleEventRepo.Create(event)
		if err == nil {
			c.infra.Logger.InfoWithContextf(ctx, "[Lifecycle Consumer] Recorded %s event for instance %s",
				payload.Action, payload.InstanceID)
			_ = msg.Ack(false)
			return
		}

		c.infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle Consumer] Attempt %d/%d failed: %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	c.infra.Logger.ErrorWithContextf(ctx, err, "[Lifecycle Consumer] Failed after %d attempts, requeueing message", maxRetries)
	_ = msg.Nack(false, true)
}
