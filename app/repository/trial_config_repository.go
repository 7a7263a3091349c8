package repository

import (
	"github.com/tablefox/TableFox/app/models"
	"gorm.io/gorm"
)

// trialConfigRepository implements the TrialConfigRepository interface
type trialConfigRepository struct {
	db *gorm.DB
}

// NewTrialConfigRepository creates a new trial config repository instance
func NewTrialConfigRepository(db *gorm.DB) TrialConfigRepository {
	return &trialConfigRepository{db: db}
}

// Get returns the trial configuration record. Callers fall back to
// models.DefaultTrialDays when no row exists.
func (r *trialConfigRepository) Get() (*models.TrialConfig, error) {
	var cfg models.TrialConfig
	err := r.db.Order("id ASC").First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save creates or updates the trial configuration record
func (r *trialConfigRepository) Save(cfg *models.TrialConfig) error {
	return r.db.Save(cfg).Error
}
