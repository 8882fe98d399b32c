package repository

import (
	"context"

	"gorm.io/gorm"

	"diabeto/internal/model"
)

// DoctorRepository defines clinician persistence operations.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	FindByID(ctx context.Context, id uint) (*model.Doctor, error)
	FindByUsername(ctx context.Context, username string) (*model.Doctor, error)
}

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository builds a GORM-backed repository.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, id uint) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUsername(ctx context.Context, username string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}
