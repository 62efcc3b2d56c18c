package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusOn      = "on"
	StatusOff     = "off"
)

const (
	PowerOn  = "on"
	PowerOff = "off"
)

type VpsInstance struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ServerName  string     `json:"server_name" gorm:"uniqueIndex;not null"`
	CPU         int        `json:"cpu" gorm:"not null"`
	RAM         int        `json:"ram" gorm:"not null"`
	Storage     int        `json:"storage" gorm:"not null"`
	IPv4        string     `json:"ipv4" gorm:"not null"`
	IPv6        string     `json:"ipv6"`
	Status      string     `json:"status" gorm:"not null;index"`
	Power       string     `json:"power" gorm:"not null"`
	Location    string     `json:"location" gorm:"not null"`
	OS          string     `json:"os" gorm:"not null"`
	AuthMethod  string     `json:"auth_method" gorm:"not null"`
	LastStartup *time.Time `json:"last_startup"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;index"`
}

// PowerFromStatus keeps the derived power column in sync with status.
// Pending instances report "off" until they finish booting.
func PowerFromStatus(status string) string {
	if status == StatusOn {
		return PowerOn
	}
	return PowerOff
}
