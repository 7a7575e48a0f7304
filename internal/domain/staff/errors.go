package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffAlreadyExists = errors.New("a staff member with this code already exists")
)
