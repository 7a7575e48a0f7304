package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"go.uber.org/zap"
)

const (
	registryStaff     = "staff"
	registryWards     = "wards"
	registryDiagnoses = "diagnoses"
)

// StaffService manages physicians. Renames and deletions never reach
// recorded visits, which hold a name snapshot.
type StaffService struct {
	repo     staff.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewStaffService(repo staff.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *StaffService {
	return &StaffService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *StaffService) RegisterStaff(ctx context.Context, cmd *staff.RegisterStaffCommand) (staff.Staff, error) {
	var errs []string
	if strings.TrimSpace(cmd.ID) == "" {
		errs = append(errs, "id is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if len(errs) > 0 {
		return staff.Staff{}, &ValidationError{Fields: errs}
	}

	m := staff.Staff{
		ID:       strings.TrimSpace(cmd.ID),
		FullName: cmd.FullName(),
		Position: staff.PositionPhysician,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return staff.Staff{}, wrapRegistryErr(s.log, "creating staff", err, staff.ErrStaffAlreadyExists)
	}

	s.metrics.RegistrySize.WithLabelValues(registryStaff).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionCreate,
		ResourceType: "staff",
		ResourceID:   m.ID,
	})
	s.log.Info("staff registered", zap.String("staff_id", m.ID))
	return m, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id string) (staff.Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *StaffService) ListStaff(ctx context.Context) ([]staff.Staff, error) {
	return s.repo.List(ctx)
}

func (s *StaffService) RenameStaff(ctx context.Context, id, firstName, lastName string) (staff.Staff, error) {
	cmd := staff.RegisterStaffCommand{ID: id, FirstName: firstName, LastName: lastName}
	fullName := cmd.FullName()
	if fullName == "" {
		return staff.Staff{}, &ValidationError{Fields: []string{"first_name or last_name is required"}}
	}

	m, err := s.repo.Rename(ctx, id, fullName)
	if err != nil {
		return staff.Staff{}, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionUpdate,
		ResourceType: "staff",
		ResourceID:   id,
		Changes:      marshalChanges(map[string]string{"full_name": fullName}),
	})
	s.log.Info("staff renamed", zap.String("staff_id", id))
	return m, nil
}

func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RegistrySize.WithLabelValues(registryStaff).Dec()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionDelete,
		ResourceType: "staff",
		ResourceID:   id,
	})
	s.log.Info("staff deleted", zap.String("staff_id", id))
	return nil
}

// WardService registers and lists wards; wards are never edited or removed.
type WardService struct {
	repo     ward.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewWardService(repo ward.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *WardService {
	return &WardService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *WardService) RegisterWard(ctx context.Context, cmd *ward.RegisterWardCommand) (ward.Ward, error) {
	var errs []string
	if cmd.ID <= 0 {
		errs = append(errs, "id must be positive")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if len(errs) > 0 {
		return ward.Ward{}, &ValidationError{Fields: errs}
	}

	w := ward.Ward{ID: cmd.ID, Name: strings.TrimSpace(cmd.Name), Capacity: cmd.Capacity}
	if err := s.repo.Create(ctx, w); err != nil {
		return ward.Ward{}, wrapRegistryErr(s.log, "creating ward", err, ward.ErrWardAlreadyExists)
	}

	s.metrics.RegistrySize.WithLabelValues(registryWards).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionCreate,
		ResourceType: "ward",
		ResourceID:   strconv.Itoa(w.ID),
	})
	s.log.Info("ward registered",
		zap.Int("ward_id", w.ID),
		zap.Int("capacity", w.Capacity),
	)
	return w, nil
}

func (s *WardService) GetWard(ctx context.Context, id int) (ward.Ward, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WardService) ListWards(ctx context.Context) ([]ward.Ward, error) {
	return s.repo.List(ctx)
}

// DiagnosisService maintains the catalog. Edits apply to future attachments only.
type DiagnosisService struct {
	repo     diagnosis.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewDiagnosisService(repo diagnosis.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *DiagnosisService {
	return &DiagnosisService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *DiagnosisService) CreateDiagnosis(ctx context.Context, cmd *diagnosis.CreateDiagnosisCommand) (diagnosis.Diagnosis, error) {
	var errs []string
	if strings.TrimSpace(cmd.Code) == "" {
		errs = append(errs, "code is required")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		errs = append(errs, "description is required")
	}
	if len(errs) > 0 {
		return diagnosis.Diagnosis{}, &ValidationError{Fields: errs}
	}

	d := diagnosis.Diagnosis{
		Code:        strings.TrimSpace(cmd.Code),
		Description: strings.TrimSpace(cmd.Description),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return diagnosis.Diagnosis{}, wrapRegistryErr(s.log, "creating diagnosis", err, diagnosis.ErrDiagnosisAlreadyExists)
	}

	s.metrics.RegistrySize.WithLabelValues(registryDiagnoses).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionCreate,
		ResourceType: "diagnosis",
		ResourceID:   d.Code,
	})
	s.log.Info("diagnosis created", zap.String("diagnosis_code", d.Code))
	return d, nil
}

func (s *DiagnosisService) GetDiagnosis(ctx context.Context, code string) (diagnosis.Diagnosis, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *DiagnosisService) ListDiagnoses(ctx context.Context) ([]diagnosis.Diagnosis, error) {
	return s.repo.List(ctx)
}

func (s *DiagnosisService) UpdateDescription(ctx context.Context, code, description string) (diagnosis.Diagnosis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return diagnosis.Diagnosis{}, &ValidationError{Fields: []string{"description is required"}}
	}

	d, err := s.repo.UpdateDescription(ctx, code, description)
	if err != nil {
		return diagnosis.Diagnosis{}, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionUpdate,
		ResourceType: "diagnosis",
		ResourceID:   code,
		Changes:      marshalChanges(map[string]string{"description": description}),
	})
	s.log.Info("diagnosis updated", zap.String("diagnosis_code", code))
	return d, nil
}

func (s *DiagnosisService) DeleteDiagnosis(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}

	s.metrics.RegistrySize.WithLabelValues(registryDiagnoses).Dec()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       domain.ActionDelete,
		ResourceType: "diagnosis",
		ResourceID:   code,
	})
	s.log.Info("diagnosis deleted", zap.String("diagnosis_code", code))
	return nil
}

// wrapRegistryErr passes the expected conflict through untouched and wraps anything else.
func wrapRegistryErr(log *zap.Logger, op string, err, conflict error) error {
	if errors.Is(err, conflict) {
		return err
	}
	log.Error("registry write failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
