package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	archive  patient.Archive
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
	now      func() time.Time
}

func NewPatientService(repo patient.Repository, archive patient.Archive, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		archive:  archive,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (s *PatientService) RegisterPatient(ctx context.Context, cmd *patient.RegisterPatientCommand) (*patient.Patient, error) {
	if err := s.validateRegisterCommand(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		ID:             cmd.ID,
		DocumentNumber: strings.TrimSpace(cmd.DocumentNumber),
		RecordNumber:   strings.TrimSpace(cmd.RecordNumber),
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		Address:        strings.TrimSpace(cmd.Address),
		Phone:          strings.TrimSpace(cmd.Phone),
		DateOfBirth:    cmd.DateOfBirth,
		RegisteredAt:   s.now().UTC(),
		Status:         patient.StatusActive,
		BedAssignments: []patient.BedAssignment{},
		Visits:         []patient.Visit{},
		Diagnoses:      []patient.DiagnosisEntry{},
		VisitCards:     []patient.VisitCard{},
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, patient.ErrPatientAlreadyExists) {
			return nil, err
		}
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.metrics.ActivePatients.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionCreate,
		ResourceType: "patient",
		ResourceID:   strconv.FormatInt(p.ID, 10),
		PatientID:    p.ID,
	})

	s.log.Info("patient registered",
		zap.Int64("patient_id", p.ID),
		zap.String("record_number", p.RecordNumber),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id int64) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

// UpdatePatient changes demographics only. The clinical logs are reachable
// exclusively through ClinicalRecordService.
func (s *PatientService) UpdatePatient(ctx context.Context, id int64, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	p, err := s.repo.Update(ctx, id, func(p *patient.Patient) error {
		if !p.IsActive() {
			return patient.ErrPatientNotFound
		}
		cmd.Apply(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionUpdate,
		ResourceType: "patient",
		ResourceID:   strconv.FormatInt(id, 10),
		PatientID:    id,
		Changes:      marshalChanges(cmd),
	})
	s.log.Info("patient updated", zap.Int64("patient_id", id))

	return p, nil
}

// DeletePatient removes an active patient without archiving the record.
func (s *PatientService) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.ActivePatients.Dec()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionDelete,
		ResourceType: "patient",
		ResourceID:   strconv.FormatInt(id, 10),
		PatientID:    id,
	})
	s.log.Info("patient deleted", zap.Int64("patient_id", id))

	return nil
}

func (s *PatientService) ListArchive(ctx context.Context) ([]*patient.Patient, error) {
	return s.archive.List(ctx)
}

// GetArchived returns every discharged record filed under id, oldest discharge first.
func (s *PatientService) GetArchived(ctx context.Context, id int64) ([]*patient.Patient, error) {
	return s.archive.FindByID(ctx, id)
}

func (s *PatientService) validateRegisterCommand(cmd *patient.RegisterPatientCommand) error {
	if cmd.ID <= 0 {
		return patient.ErrInvalidPatientID
	}
	if cmd.DateOfBirth.After(s.now()) {
		return patient.ErrInvalidDateOfBirth
	}

	var errs []string

	if strings.TrimSpace(cmd.DocumentNumber) == "" {
		errs = append(errs, "document_number is required")
	}
	if strings.TrimSpace(cmd.RecordNumber) == "" {
		errs = append(errs, "record_number is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
