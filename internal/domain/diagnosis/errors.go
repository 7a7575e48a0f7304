package diagnosis

import "errors"

var (
	ErrDiagnosisNotFound      = errors.New("diagnosis not found")
	ErrDiagnosisAlreadyExists = errors.New("a diagnosis with this code already exists")
)
