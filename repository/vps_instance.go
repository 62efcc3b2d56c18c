package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nimbuslabs/nimbus-vps-service/entity"
)

// allowedSortColumns guards the ORDER BY clause; the DTO layer validates
// the same set, this is the second line.
var allowedSortColumns = map[string]bool{
	"created_at":  true,
	"server_name": true,
	"status":      true,
	"cpu":         true,
	"ram":         true,
}

type VpsInstanceRepository struct {
	db *gorm.DB
}

func NewVpsInstanceRepository(db *gorm.DB) *VpsInstanceRepository {
	return &VpsInstanceRepository{db: db}
}

func (r *VpsInstanceRepository) Create(instance *entity.VpsInstance) error {
	return r.db.Create(instance).Error
}

func (r *VpsInstanceRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.VpsInstance{}).Where("server_name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VpsInstanceRepository) FindByIDAndUserID(id, userID uuid.UUID) (*entity.VpsInstance, error) {
	var instance entity.VpsInstance
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// FindPageByUserID returns one page of the caller's instances plus the
// total owned count for pagination.
func (r *VpsInstanceRepository) FindPageByUserID(userID uuid.UUID, page, pageSize int, sortBy, sortOrder string) ([]entity.VpsInstance, int64, error) {
	if !allowedSortColumns[sortBy] {
		return nil, 0, fmt.Errorf("unsupported sort column: %s", sortBy)
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return nil, 0, fmt.Errorf("unsupported sort order: %s", sortOrder)
	}

	var total int64
	err := r.db.Model(&entity.VpsInstance{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var instances []entity.VpsInstance
	err = r.db.Where("user_id = ?", userID).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&instances).Error
	if err != nil {
		return nil, 0, err
	}

	return instances, total, nil
}

// UpdatePowerState persists a power transition. A nil lastStartup clears
// the column.
func (r *VpsInstanceRepository) UpdatePowerState(id uuid.UUID, status string, lastStartup *time.Time) error {
	return r.db.Model(&entity.VpsInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"power":        entity.PowerFromStatus(status),
			"last_startup": lastStartup,
		}).Error
}

func (r *VpsInstanceRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.VpsInstance{}, "id = ?", id).Error
}

// IsNotFound reports whether err is gorm's empty-result error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err came from the server_name unique
// index. Covers gorm's translated error plus the raw postgres and sqlite
// messages, since error translation depends on the driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
