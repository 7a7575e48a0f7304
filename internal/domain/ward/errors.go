package ward

import "errors"

var (
	ErrWardNotFound      = errors.New("ward not found")
	ErrNoWardsRegistered = errors.New("no wards are registered in the hospital")
	ErrInvalidBedNumber  = errors.New("bed number is outside the ward's capacity")
	ErrWardAlreadyExists = errors.New("a ward with this number already exists")
)
