package staff

import "strings"

const PositionPhysician = "physician"

type Staff struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}

type RegisterStaffCommand struct {
	ID        string
	FirstName string
	LastName  string
}

// FullName joins given name and surname the way visit records display them.
func (cmd *RegisterStaffCommand) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(cmd.FirstName) + " " + strings.TrimSpace(cmd.LastName))
}
