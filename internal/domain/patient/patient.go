package patient

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a patient record.
//
//	active → archived (discharge)
//
// Archived is terminal.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

type Patient struct {
	// Caller-assigned; unique among active patients only.
	ID int64 `json:"id"`

	DocumentNumber string    `json:"document_number"`
	RecordNumber   string    `json:"record_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	RegisteredAt   time.Time `json:"registered_at"`

	Status Status `json:"status"`

	// Append-only logs, kept in insertion order.
	BedAssignments []BedAssignment  `json:"bed_assignments"`
	Visits         []Visit          `json:"visits"`
	Diagnoses      []DiagnosisEntry `json:"diagnoses"`
	VisitCards     []VisitCard      `json:"visit_cards"`
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// Clone returns a deep copy so callers never share log backing arrays with the store.
// Empty logs come back as empty slices, never nil.
func (p *Patient) Clone() *Patient {
	if p == nil {
		return nil
	}
	c := *p
	c.BedAssignments = nonNil(append([]BedAssignment(nil), p.BedAssignments...))
	c.Visits = nonNil(append([]Visit(nil), p.Visits...))
	c.Diagnoses = nonNil(append([]DiagnosisEntry(nil), p.Diagnoses...))
	c.VisitCards = nonNil(append([]VisitCard(nil), p.VisitCards...))
	return &c
}

// Archive performs the single lifecycle transition.
func (p *Patient) Archive() error {
	if !p.IsActive() {
		return ErrPatientNotFound
	}
	p.Status = StatusArchived
	return nil
}

type RegisterPatientCommand struct {
	ID             int64
	DocumentNumber string
	RecordNumber   string
	FirstName      string
	LastName       string
	Address        string
	Phone          string
	DateOfBirth    time.Time
}

// UpdatePatientCommand carries optional demographic changes; nil or blank fields are left untouched.
type UpdatePatientCommand struct {
	FirstName *string
	LastName  *string
	Address   *string
	Phone     *string
}

// Apply mutates the demographic fields. The clinical logs are never touched.
func (cmd *UpdatePatientCommand) Apply(p *Patient) {
	set := func(dst *string, v *string) {
		if v == nil {
			return
		}
		if t := strings.TrimSpace(*v); t != "" {
			*dst = t
		}
	}
	set(&p.FirstName, cmd.FirstName)
	set(&p.LastName, cmd.LastName)
	set(&p.Address, cmd.Address)
	set(&p.Phone, cmd.Phone)
}
