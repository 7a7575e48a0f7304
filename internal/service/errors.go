package service

import (
	"errors"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	PatientID    int64
	Changes      string
}

// ErrorCode maps an error to the stable kind name surfaced to callers.
// Unknown errors map to INTERNAL.
func ErrorCode(err error) string {
	var validErr *ValidationError
	if errors.As(err, &validErr) {
		return "VALIDATION_FAILED"
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return "PATIENT_NOT_FOUND"
	case errors.Is(err, patient.ErrPatientAlreadyExists):
		return "PATIENT_ALREADY_EXISTS"
	case errors.Is(err, patient.ErrCardLimitReached):
		return "CARD_LIMIT_REACHED"
	case errors.Is(err, patient.ErrInvalidPatientID):
		return "INVALID_PATIENT_ID"
	case errors.Is(err, patient.ErrInvalidDateOfBirth):
		return "INVALID_DATE_OF_BIRTH"
	case errors.Is(err, ward.ErrWardNotFound):
		return "WARD_NOT_FOUND"
	case errors.Is(err, ward.ErrNoWardsRegistered):
		return "NO_WARDS_REGISTERED"
	case errors.Is(err, ward.ErrInvalidBedNumber):
		return "INVALID_BED_NUMBER"
	case errors.Is(err, ward.ErrWardAlreadyExists):
		return "WARD_ALREADY_EXISTS"
	case errors.Is(err, staff.ErrStaffNotFound):
		return "STAFF_NOT_FOUND"
	case errors.Is(err, staff.ErrStaffAlreadyExists):
		return "STAFF_ALREADY_EXISTS"
	case errors.Is(err, diagnosis.ErrDiagnosisNotFound):
		return "DIAGNOSIS_NOT_FOUND"
	case errors.Is(err, diagnosis.ErrDiagnosisAlreadyExists):
		return "DIAGNOSIS_ALREADY_EXISTS"
	}
	return "INTERNAL"
}
