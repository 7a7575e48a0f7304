package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"
	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type PagedResponse[T any] struct {
	Data   T   `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Code:   service.ErrorCode(err),
			Fields: validErr.Fields,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		respondError(c, status, "INTERNAL", "internal server error")
		return
	}
	respondError(c, status, service.ErrorCode(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, ward.ErrWardNotFound),
		errors.Is(err, staff.ErrStaffNotFound),
		errors.Is(err, diagnosis.ErrDiagnosisNotFound):
		return http.StatusNotFound

	case errors.Is(err, ward.ErrNoWardsRegistered),
		errors.Is(err, patient.ErrCardLimitReached),
		errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, ward.ErrWardAlreadyExists),
		errors.Is(err, staff.ErrStaffAlreadyExists),
		errors.Is(err, diagnosis.ErrDiagnosisAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, ward.ErrInvalidBedNumber),
		errors.Is(err, patient.ErrInvalidPatientID),
		errors.Is(err, patient.ErrInvalidDateOfBirth):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request: "+err.Error())
		return false
	}

	return true
}

func parsePatientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_PATIENT_ID", "invalid id: must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseWardID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid id: must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
