package repository

import (
	"context"

	"gorm.io/gorm"

	"diabeto/internal/model"
)

// PredictionLogRepository defines audit trail persistence operations.
// Log rows are append-only; there is no update or delete.
type PredictionLogRepository interface {
	Create(ctx context.Context, log *model.PredictionLog) error
	ListByPatient(ctx context.Context, patientID uint) ([]model.PredictionLog, error)
}

type predictionLogRepository struct {
	db *gorm.DB
}

// NewPredictionLogRepository builds a GORM-backed repository.
func NewPredictionLogRepository(db *gorm.DB) PredictionLogRepository {
	return &predictionLogRepository{db: db}
}

func (r *predictionLogRepository) Create(ctx context.Context, log *model.PredictionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *predictionLogRepository) ListByPatient(ctx context.Context, patientID uint) ([]model.PredictionLog, error) {
	var logs []model.PredictionLog
	if err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
