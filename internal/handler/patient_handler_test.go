package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "diabeto/internal/errors"
	"diabeto/internal/handler"
	"diabeto/internal/model"
	"diabeto/internal/service"
)

// MockPatientService is a mock implementation of service.PatientService.
type MockPatientService struct {
	mock.Mock
}

func (m *MockPatientService) Add(ctx context.Context, doctorID uint, input service.PatientInput) (*model.Patient, error) {
	args := m.Called(ctx, doctorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientService) List(ctx context.Context, doctorID uint, sortBy, order string) (*service.PatientList, error) {
	args := m.Called(ctx, doctorID, sortBy, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PatientList), args.Error(1)
}

func (m *MockPatientService) Delete(ctx context.Context, doctorID, patientID uint) error {
	args := m.Called(ctx, doctorID, patientID)
	return args.Error(0)
}

func (m *MockPatientService) History(ctx context.Context, doctorID, patientID uint) ([]model.PredictionLog, error) {
	args := m.Called(ctx, doctorID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PredictionLog), args.Error(1)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("doctor", &model.Doctor{ID: 1, Username: "drA"})
	return c
}

func TestAddPatientModelUnavailable(t *testing.T) {
	mockSvc := new(MockPatientService)
	mockSvc.On("Add", mock.Anything, uint(1), mock.Anything).
		Return(nil, apperrors.ErrModelUnavailable)

	h := handler.NewPatientHandler(mockSvc)

	form := url.Values{
		"name": {"Alice"}, "age": {"45"}, "sex": {"F"},
		"glucose": {"180"}, "bmi": {"32.0"}, "pedigree": {"0.6"},
	}
	req := httptest.NewRequest(http.MethodPost, "/add_patient", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	err := h.AddPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
}

func TestAddPatientSuccess(t *testing.T) {
	result := 1
	mockSvc := new(MockPatientService)
	mockSvc.On("Add", mock.Anything, uint(1), service.PatientInput{
		Name: "Alice", Age: 45, Sex: "F", Glucose: 180, BMI: 32.0, Pedigree: 0.6,
	}).Return(&model.Patient{ID: 9, DoctorID: 1, Name: "Alice", Result: &result}, nil)

	h := handler.NewPatientHandler(mockSvc)

	form := url.Values{
		"name": {"Alice"}, "age": {"45"}, "sex": {"F"},
		"glucose": {"180"}, "bmi": {"32.0"}, "pedigree": {"0.6"},
	}
	req := httptest.NewRequest(http.MethodPost, "/add_patient", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	assert.NoError(t, h.AddPatient(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "diabetic")
	mockSvc.AssertExpectations(t)
}

// Zero is a real measurement in this feature space: a pedigree of 0 (or a
// glucose of 0 in sparse records) must bind and validate, not read as absent.
func TestAddPatientAcceptsZeroFeatures(t *testing.T) {
	result := 0
	mockSvc := new(MockPatientService)
	mockSvc.On("Add", mock.Anything, uint(1), service.PatientInput{
		Name: "Bob", Age: 30, Sex: "M", Glucose: 0, BMI: 24.5, Pedigree: 0,
	}).Return(&model.Patient{ID: 10, DoctorID: 1, Name: "Bob", Result: &result}, nil)

	h := handler.NewPatientHandler(mockSvc)

	form := url.Values{
		"name": {"Bob"}, "age": {"30"}, "sex": {"M"},
		"glucose": {"0"}, "bmi": {"24.5"}, "pedigree": {"0"},
	}
	req := httptest.NewRequest(http.MethodPost, "/add_patient", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	assert.NoError(t, h.AddPatient(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	mockSvc.AssertExpectations(t)
}

// An absent feature is still a 400: presence is required even though zero
// values are accepted.
func TestAddPatientRejectsMissingFeature(t *testing.T) {
	h := handler.NewPatientHandler(new(MockPatientService))

	form := url.Values{
		"name": {"Bob"}, "age": {"30"}, "sex": {"M"},
		"glucose": {"110"}, "bmi": {"24.5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/add_patient", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	err := h.AddPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestAddPatientRejectsBadSex(t *testing.T) {
	h := handler.NewPatientHandler(new(MockPatientService))

	form := url.Values{
		"name": {"Alice"}, "age": {"45"}, "sex": {"X"},
		"glucose": {"180"}, "bmi": {"32.0"}, "pedigree": {"0.6"},
	}
	req := httptest.NewRequest(http.MethodPost, "/add_patient", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	err := h.AddPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeletePatientRedirects(t *testing.T) {
	tests := []struct {
		name         string
		serviceErr   error
		wantLocation string
	}{
		{
			name:         "owned record",
			serviceErr:   nil,
			wantLocation: "/patients?success_message=" + url.QueryEscape("patient deleted"),
		},
		{
			// Not-owned and nonexistent produce the same redirect: the
			// response discloses nothing about the record's existence.
			name:         "not found or not owned",
			serviceErr:   apperrors.ErrNotFoundOrForbidden,
			wantLocation: "/patients?error_message=" + url.QueryEscape("patient not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockPatientService)
			mockSvc.On("Delete", mock.Anything, uint(1), uint(9)).Return(tt.serviceErr)

			h := handler.NewPatientHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/delete_patient/9", nil)
			rec := httptest.NewRecorder()
			c := authedContext(newEcho(), req, rec)
			c.SetParamNames("id")
			c.SetParamValues("9")

			assert.NoError(t, h.DeletePatient(c))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestListPatients(t *testing.T) {
	result := 1
	mockSvc := new(MockPatientService)
	mockSvc.On("List", mock.Anything, uint(1), "age", "desc").Return(&service.PatientList{
		Patients:           []model.Patient{{ID: 9, DoctorID: 1, Name: "Alice", Result: &result}},
		DiabeticPercentage: 100,
	}, nil)

	h := handler.NewPatientHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/patients?sort_by=age&order=desc", nil)
	rec := httptest.NewRecorder()
	c := authedContext(newEcho(), req, rec)

	assert.NoError(t, h.ListPatients(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"diabetic_percentage":100`)
	assert.Contains(t, rec.Body.String(), `"Alice"`)
}
