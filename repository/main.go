package repository

import (
	"gorm.io/gorm"

	"github.com/nimbuslabs/nimbus-vps-service/infra"
)

type Repository struct {
	VpsInstanceRepo    *VpsInstanceRepository
	LifecycleEventRepo *LifecycleEventRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		VpsInstanceRepo:    NewVpsInstanceRepository(infra.Postgres.DB),
		LifecycleEventRepo: NewLifecycleEventRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) BeginTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		VpsInstanceRepo:    NewVpsInstanceRepository(tx),
		LifecycleEventRepo: NewLifecycleEventRepository(tx),
	}
}
