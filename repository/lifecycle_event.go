package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimbuslabs/nimbus-vps-service/entity"
)

type LifecycleEventRepository struct {
	db *gorm.DB
}

func NewLifecycleEventRepository(db *gorm.DB) *LifecycleEventRepository {
	return &LifecycleEventRepository{db: db}
}

func (r *LifecycleEventRepository) Create(event *entity.VpsLifecycleEvent) error {
	return r.db.Create(event).Error
}

func (r *LifecycleEventRepository) FindByInstanceID(instanceID uuid.UUID) ([]entity.VpsLifecycleEvent, error) {
	var events []entity.VpsLifecycleEvent
	err := r.db.Where("instance_id = ?", instanceID).Order("occurred_at desc").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
