package model

import "time"

// PredictionLog is an immutable audit entry for one classification, distinct
// from the denormalized result column on the patient row. A row is appended in
// the same transaction as the patient insert and never updated afterwards.
type PredictionLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PatientID    uint      `json:"patient_id" gorm:"not null;index"`
	Result       int       `json:"result" gorm:"not null"`
	ModelVersion string    `json:"model_version" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Patient Patient `json:"-" gorm:"foreignKey:PatientID"`
}

// TableName keeps the legacy table name.
func (PredictionLog) TableName() string { return "predictions" }
