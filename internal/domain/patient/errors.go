package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("an active patient with this ID already exists")
	ErrCardLimitReached     = errors.New("patient already holds the maximum of 4 visit cards")
	ErrInvalidPatientID     = errors.New("patient ID must be a positive number")
	ErrInvalidDateOfBirth   = errors.New("date of birth cannot be in the future")
)
