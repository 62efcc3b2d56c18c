package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LifecycleActionCreated  = "created"
	LifecycleActionPowerOn  = "poweron"
	LifecycleActionPowerOff = "poweroff"
	LifecycleActionReboot   = "reboot"
	LifecycleActionDeleted  = "deleted"
)

// VpsLifecycleEvent is the audit record written by the consumer for every
// lifecycle message published on the event bus.
type VpsLifecycleEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	InstanceID uuid.UUID      `json:"instance_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Action     string         `json:"action" gorm:"not null"`
	Status     string         `json:"status" gorm:"not null"`
	Payload    datatypes.JSON `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null"`
}

func (VpsLifecycleEvent) TableName() string {
	return "vps_lifecycle_events"
}
