package repository

import (
	"context"

	"gorm.io/gorm"

	"diabeto/internal/model"
)

// PatientRepository defines patient persistence operations. All reads and
// mutations are scoped to the owning clinician.
type PatientRepository interface {
	// CreateWithLog inserts the patient row and its prediction audit entry in
	// one transaction. Either both rows land or neither does.
	CreateWithLog(ctx context.Context, patient *model.Patient, log *model.PredictionLog) error
	ListByDoctor(ctx context.Context, doctorID uint) ([]model.Patient, error)
	FindOwned(ctx context.Context, id, doctorID uint) (*model.Patient, error)
	CountByDoctor(ctx context.Context, doctorID uint) (int64, error)
	// DeleteOwned removes the patient only if it belongs to doctorID. The
	// ownership check lives in the DELETE itself, so there is no window between
	// checking and acting. Returns the number of rows removed.
	DeleteOwned(ctx context.Context, id, doctorID uint) (int64, error)
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository builds a GORM-backed repository.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) CreateWithLog(ctx context.Context, patient *model.Patient, log *model.PredictionLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(patient).Error; err != nil {
			return err
		}
		log.PatientID = patient.ID
		return tx.Create(log).Error
	})
}

func (r *patientRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) FindOwned(ctx context.Context, id, doctorID uint) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.WithContext(ctx).Where("id = ? AND doctor_id = ?", id, doctorID).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) CountByDoctor(ctx context.Context, doctorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Patient{}).Where("doctor_id = ?", doctorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *patientRepository) DeleteOwned(ctx context.Context, id, doctorID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&model.Patient{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
