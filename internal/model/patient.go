package model

import "time"

// Sex values accepted on patient records.
const (
	SexMale   = "M"
	SexFemale = "F"
	SexOther  = "Other"
)

// Patient represents one patient's clinical inputs plus the computed
// classification. Result is nullable: 0 = negative, 1 = positive.
type Patient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DoctorID  uint      `json:"doctor_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Age       *int      `json:"age"`
	Sex       string    `json:"sex" gorm:"size:10"`
	Glucose   *float64  `json:"glucose"`
	BMI       *float64  `json:"bmi"`
	Pedigree  *float64  `json:"pedigree"`
	Result    *int      `json:"result"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Doctor Doctor `json:"-" gorm:"foreignKey:DoctorID"`
}

// TableName keeps the legacy table name.
func (Patient) TableName() string { return "patients" }
