package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxVisitCards is the number of visitor passes a patient may ever hold.
const MaxVisitCards = 4

// VisitTimeLayout formats the time-of-day shown next to each visit.
const VisitTimeLayout = "15:04:05"

// BedAssignment links a patient to a ward bed. WardName is copied at assignment time.
type BedAssignment struct {
	ID         uuid.UUID `json:"id"`
	WardID     int       `json:"ward_id"`
	WardName   string    `json:"ward_name"`
	BedNumber  int       `json:"bed_number"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Visit records a physician round. Physician is a name snapshot, not a staff reference.
type Visit struct {
	ID        uuid.UUID `json:"id"`
	Physician string    `json:"physician"`
	VisitedAt time.Time `json:"visited_at"`
	Time      string    `json:"time"`
}

// DiagnosisEntry is a value copy of a catalog diagnosis taken when it was recorded.
type DiagnosisEntry struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// VisitCard is a visitor pass. Start and end are free-form ("HH:MM") and not validated.
type VisitCard struct {
	Number      string `json:"number"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	VisitorName string `json:"visitor_name"`
}

type IssueVisitCardCommand struct {
	PatientID   int64
	StartTime   string
	EndTime     string
	VisitorName string
}

// CardNumber builds the pass number for the seq-th card (1-based) of a patient.
func CardNumber(patientID int64, seq int) string {
	return fmt.Sprintf("T-%d-%d", patientID, seq)
}

func (p *Patient) AddBedAssignment(a BedAssignment) error {
	if !p.IsActive() {
		return ErrPatientNotFound
	}
	p.BedAssignments = append(p.BedAssignments, a)
	return nil
}

func (p *Patient) AddVisit(v Visit) error {
	if !p.IsActive() {
		return ErrPatientNotFound
	}
	p.Visits = append(p.Visits, v)
	return nil
}

func (p *Patient) AddDiagnosis(d DiagnosisEntry) error {
	if !p.IsActive() {
		return ErrPatientNotFound
	}
	p.Diagnoses = append(p.Diagnoses, d)
	return nil
}

// IssueVisitCard checks the cap and appends the next numbered card.
// Cards are never removed, so len+1 is monotonic per patient.
func (p *Patient) IssueVisitCard(startTime, endTime, visitorName string) (VisitCard, error) {
	if !p.IsActive() {
		return VisitCard{}, ErrPatientNotFound
	}
	if len(p.VisitCards) >= MaxVisitCards {
		return VisitCard{}, ErrCardLimitReached
	}

	card := VisitCard{
		Number:      CardNumber(p.ID, len(p.VisitCards)+1),
		StartTime:   startTime,
		EndTime:     endTime,
		VisitorName: visitorName,
	}
	p.VisitCards = append(p.VisitCards, card)
	return card, nil
}

// ClinicalHistory is the read-only projection of a patient's full record.
type ClinicalHistory struct {
	PatientID      int64     `json:"patient_id"`
	DocumentNumber string    `json:"document_number"`
	RecordNumber   string    `json:"record_number"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	RegisteredAt   time.Time `json:"registered_at"`

	BedAssignments []BedAssignment  `json:"bed_assignments"`
	Visits         []Visit          `json:"visits"`
	Diagnoses      []DiagnosisEntry `json:"diagnoses"`
	VisitCards     []VisitCard      `json:"visit_cards"`
}

// History copies every log as-is; entries are neither sorted nor filtered.
func (p *Patient) History() *ClinicalHistory {
	c := p.Clone()
	return &ClinicalHistory{
		PatientID:      c.ID,
		DocumentNumber: c.DocumentNumber,
		RecordNumber:   c.RecordNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Address:        c.Address,
		Phone:          c.Phone,
		DateOfBirth:    c.DateOfBirth,
		RegisteredAt:   c.RegisteredAt,
		BedAssignments: nonNil(c.BedAssignments),
		Visits:         nonNil(c.Visits),
		Diagnoses:      nonNil(c.Diagnoses),
		VisitCards:     nonNil(c.VisitCards),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
