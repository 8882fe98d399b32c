package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "diabeto/internal/errors"
	"diabeto/internal/model"
	"diabeto/internal/service"
)

// PatientHandler handles the patient record workflow.
type PatientHandler struct {
	patientService service.PatientService
}

// NewPatientHandler creates a new patient handler.
func NewPatientHandler(patientService service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// AddPatientRequest represents an add-patient submission. Feature fields feed
// the classifier, so all four are required. They are pointers because zero is
// a legitimate measurement: required must mean present, not non-zero.
type AddPatientRequest struct {
	Name     string   `json:"name" form:"name" validate:"required,max=255"`
	Age      *int     `json:"age" form:"age" validate:"required,gte=0,lte=130"`
	Sex      string   `json:"sex" form:"sex" validate:"required,oneof=M F Other"`
	Glucose  *float64 `json:"glucose" form:"glucose" validate:"required,gte=0"`
	BMI      *float64 `json:"bmi" form:"bmi" validate:"required,gte=0"`
	Pedigree *float64 `json:"pedigree" form:"pedigree" validate:"required,gte=0"`
}

// AddPatientResponse is returned after a successful classification.
type AddPatientResponse struct {
	Message string         `json:"message"`
	Patient *model.Patient `json:"patient"`
}

// PatientListResponse is the patient listing plus its summary statistic.
type PatientListResponse struct {
	Patients           []model.Patient `json:"patients"`
	DiabeticPercentage float64         `json:"diabetic_percentage"`
	Message            string          `json:"message,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// AddPatientForm godoc
// @Summary Add-patient form descriptor
// @Tags patients
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /add_patient [get]
func (h *PatientHandler) AddPatientForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"fields":  []string{"name", "age", "sex", "glucose", "bmi", "pedigree"},
		"message": c.QueryParam("success_message"),
		"error":   c.QueryParam("error_message"),
	})
}

// AddPatient godoc
// @Summary Register a patient and classify diabetes risk
// @Tags patients
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body AddPatientRequest true "Patient data"
// @Success 201 {object} AddPatientResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /add_patient [post]
func (h *PatientHandler) AddPatient(c echo.Context) error {
	var req AddPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doctor := CurrentDoctor(c)
	patient, err := h.patientService.Add(c.Request().Context(), doctor.ID, service.PatientInput{
		Name:     req.Name,
		Age:      *req.Age,
		Sex:      req.Sex,
		Glucose:  *req.Glucose,
		BMI:      *req.BMI,
		Pedigree: *req.Pedigree,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	message := "Patient '" + patient.Name + "' added. Prediction: not diabetic."
	if patient.Result != nil && *patient.Result == 1 {
		message = "Patient '" + patient.Name + "' added. Prediction: diabetic."
	}
	return c.JSON(http.StatusCreated, AddPatientResponse{
		Message: message,
		Patient: patient,
	})
}

// ListPatients godoc
// @Summary List the caller's patients with sorting and statistics
// @Tags patients
// @Produce json
// @Param sort_by query string false "Sort key" Enums(name, age, glucose, bmi, pedigree, result, created_at)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} PatientListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /patients [get]
func (h *PatientHandler) ListPatients(c echo.Context) error {
	doctor := CurrentDoctor(c)
	list, err := h.patientService.List(c.Request().Context(), doctor.ID, c.QueryParam("sort_by"), c.QueryParam("order"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, PatientListResponse{
		Patients:           list.Patients,
		DiabeticPercentage: list.DiabeticPercentage,
		Message:            c.QueryParam("success_message"),
		Error:              c.QueryParam("error_message"),
	})
}

// DeletePatient godoc
// @Summary Delete an owned patient record
// @Tags patients
// @Param id path int true "Patient ID"
// @Success 302
// @Failure 401 {object} errors.ErrorResponse
// @Router /delete_patient/{id} [post]
func (h *PatientHandler) DeletePatient(c echo.Context) error {
	patientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.Redirect(http.StatusFound, "/patients?error_message="+url.QueryEscape("invalid patient id"))
	}

	doctor := CurrentDoctor(c)
	if err := h.patientService.Delete(c.Request().Context(), doctor.ID, uint(patientID)); err != nil {
		// Not-found and not-owned come back identical; nothing to disclose.
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Redirect(http.StatusFound, "/patients?error_message="+url.QueryEscape(httpErr.Message))
	}

	return c.Redirect(http.StatusFound, "/patients?success_message="+url.QueryEscape("patient deleted"))
}

// PredictionHistory godoc
// @Summary Prediction audit trail for an owned patient
// @Tags patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {array} model.PredictionLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /patients/{id}/predictions [get]
func (h *PatientHandler) PredictionHistory(c echo.Context) error {
	patientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	doctor := CurrentDoctor(c)
	logs, err := h.patientService.History(c.Request().Context(), doctor.ID, uint(patientID))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, logs)
}
