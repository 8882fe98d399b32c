package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"diabeto/internal/classifier"
	apperrors "diabeto/internal/errors"
	"diabeto/internal/metrics"
	"diabeto/internal/model"
	"diabeto/internal/repository"
)

// sortKeys is the allow-list for patient list ordering. Anything else falls
// back to the default of created_at descending.
var sortKeys = map[string]bool{
	"name":       true,
	"age":        true,
	"glucose":    true,
	"bmi":        true,
	"pedigree":   true,
	"result":     true,
	"created_at": true,
}

// PatientInput carries the clinical fields for a new patient record.
type PatientInput struct {
	Name     string
	Age      int
	Sex      string
	Glucose  float64
	BMI      float64
	Pedigree float64
}

// PatientList is the list-patients result: the owner's records plus the share
// of positive classifications.
type PatientList struct {
	Patients           []model.Patient
	DiabeticPercentage float64
}

// PatientService orchestrates the patient record workflow: classification,
// persistence, listing and deletion, always scoped to the owning clinician.
type PatientService interface {
	Add(ctx context.Context, doctorID uint, input PatientInput) (*model.Patient, error)
	List(ctx context.Context, doctorID uint, sortBy, order string) (*PatientList, error)
	Delete(ctx context.Context, doctorID, patientID uint) error
	History(ctx context.Context, doctorID, patientID uint) ([]model.PredictionLog, error)
}

type patientService struct {
	patientRepo repository.PatientRepository
	logRepo     repository.PredictionLogRepository
	model       *classifier.Classifier
}

// NewPatientService creates a new patient service. model may be nil when the
// artifact failed to load at startup; Add then fails closed.
func NewPatientService(patientRepo repository.PatientRepository, logRepo repository.PredictionLogRepository, model *classifier.Classifier) PatientService {
	return &patientService{
		patientRepo: patientRepo,
		logRepo:     logRepo,
		model:       model,
	}
}

// Add classifies the feature vector and persists the patient together with
// its audit log entry. When the model is unavailable nothing is written: a
// patient row without a result must never exist.
func (s *patientService) Add(ctx context.Context, doctorID uint, input PatientInput) (*model.Patient, error) {
	if !s.model.Available() {
		metrics.ModelUnavailableTotal.Inc()
		return nil, apperrors.ErrModelUnavailable
	}

	result := s.model.Predict(input.Glucose, input.BMI, float64(input.Age), input.Pedigree)

	age := input.Age
	glucose := input.Glucose
	bmi := input.BMI
	pedigree := input.Pedigree
	patient := &model.Patient{
		DoctorID: doctorID,
		Name:     input.Name,
		Age:      &age,
		Sex:      input.Sex,
		Glucose:  &glucose,
		BMI:      &bmi,
		Pedigree: &pedigree,
		Result:   &result,
	}
	log := &model.PredictionLog{
		Result:       result,
		ModelVersion: s.model.Version(),
	}

	if err := s.patientRepo.CreateWithLog(ctx, patient, log); err != nil {
		return nil, fmt.Errorf("persist patient: %w", err)
	}

	metrics.PredictionsTotal.WithLabelValues(strconv.Itoa(result)).Inc()
	return patient, nil
}

// List fetches the caller's records, sorts them in-process by an allow-listed
// key and computes the diabetic share. Null values sort to the tail in either
// direction: +inf sentinel ascending, -inf descending, so they never vanish
// and never break the comparator.
func (s *patientService) List(ctx context.Context, doctorID uint, sortBy, order string) (*PatientList, error) {
	patients, err := s.patientRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}

	if !sortKeys[sortBy] {
		sortBy = "created_at"
		order = "desc"
	}
	desc := order == "desc"
	sortPatients(patients, sortBy, desc)

	diabetic := 0
	for _, p := range patients {
		if p.Result != nil && *p.Result == 1 {
			diabetic++
		}
	}
	percentage := 0.0
	if len(patients) > 0 {
		percentage = float64(diabetic) / float64(len(patients)) * 100
	}

	return &PatientList{Patients: patients, DiabeticPercentage: percentage}, nil
}

// Delete removes an owned record. Ownership is enforced inside the DELETE
// statement itself; a missing row and somebody else's row are reported
// identically so existence leaks to nobody.
func (s *patientService) Delete(ctx context.Context, doctorID, patientID uint) error {
	affected, err := s.patientRepo.DeleteOwned(ctx, patientID, doctorID)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFoundOrForbidden
	}
	return nil
}

// History returns the prediction audit trail for an owned patient.
func (s *patientService) History(ctx context.Context, doctorID, patientID uint) ([]model.PredictionLog, error) {
	if _, err := s.patientRepo.FindOwned(ctx, patientID, doctorID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return s.logRepo.ListByPatient(ctx, patientID)
}

// sortPatients orders records by key. Numeric and result columns are nullable;
// nulls take the sentinel that lands them at the end for the given direction.
func sortPatients(patients []model.Patient, key string, desc bool) {
	nullSentinel := math.Inf(1)
	if desc {
		nullSentinel = math.Inf(-1)
	}

	numeric := func(p model.Patient) float64 {
		var v *float64
		switch key {
		case "glucose":
			v = p.Glucose
		case "bmi":
			v = p.BMI
		case "pedigree":
			v = p.Pedigree
		case "age":
			if p.Age != nil {
				f := float64(*p.Age)
				v = &f
			}
		case "result":
			if p.Result != nil {
				f := float64(*p.Result)
				v = &f
			}
		}
		if v == nil {
			return nullSentinel
		}
		return *v
	}

	sort.SliceStable(patients, func(i, j int) bool {
		var less bool
		switch key {
		case "name":
			less = patients[i].Name < patients[j].Name
		case "created_at":
			less = patients[i].CreatedAt.Before(patients[j].CreatedAt)
		default:
			less = numeric(patients[i]) < numeric(patients[j])
		}
		if desc {
			return !less && !equalKey(patients[i], patients[j], key)
		}
		return less
	})
}

func equalKey(a, b model.Patient, key string) bool {
	switch key {
	case "name":
		return a.Name == b.Name
	case "created_at":
		return a.CreatedAt.Equal(b.CreatedAt)
	case "age":
		return intPtrEqual(a.Age, b.Age)
	case "result":
		return intPtrEqual(a.Result, b.Result)
	case "glucose":
		return floatPtrEqual(a.Glucose, b.Glucose)
	case "bmi":
		return floatPtrEqual(a.BMI, b.BMI)
	case "pedigree":
		return floatPtrEqual(a.Pedigree, b.Pedigree)
	}
	return false
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
