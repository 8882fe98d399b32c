package model

import "time"

// Doctor represents an authenticated clinician who owns patient records.
type Doctor struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Patients []Patient `json:"patients,omitempty" gorm:"foreignKey:DoctorID"`
}

// TableName keeps the legacy table name.
func (Doctor) TableName() string { return "doctors" }
