package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"

const (
	opAssignBed       = "assign_bed"
	opRegisterVisit   = "register_visit"
	opAttachDiagnosis = "attach_diagnosis"
	opIssueVisitCard  = "issue_visit_card"
	opDischarge       = "discharge"
	opBuildHistory    = "build_history"
)

// Registries are the lookups the clinical record operations resolve identifiers against.
type Registries struct {
	Patients  patient.Repository
	Wards     ward.Repository
	Staff     staff.Repository
	Diagnoses diagnosis.Repository
}

// ClinicalRecordService mutates a single patient's record per call. Every
// operation validates first and appends only through Repository.Update, so a
// rejected call leaves the record untouched.
type ClinicalRecordService struct {
	patients  patient.Repository
	wards     ward.Repository
	staff     staff.Repository
	diagnoses diagnosis.Repository

	auditSvc *AuditService
	metrics  *metrics.Collector
	tracer   trace.Tracer
	log      *zap.Logger
	now      func() time.Time
}

func NewClinicalRecordService(reg Registries, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *ClinicalRecordService {
	return &ClinicalRecordService{
		patients:  reg.Patients,
		wards:     reg.Wards,
		staff:     reg.Staff,
		diagnoses: reg.Diagnoses,
		auditSvc:  auditSvc,
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
		log:       log,
		now:       time.Now,
	}
}

func (s *ClinicalRecordService) AssignBed(ctx context.Context, patientID int64, wardID, bedNumber int) (_ patient.BedAssignment, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.AssignBed", trace.WithAttributes(
		attribute.Int64("patient.id", patientID),
		attribute.Int("ward.id", wardID),
		attribute.Int("bed.number", bedNumber),
	))
	defer func() { s.finish(span, opAssignBed, err) }()

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return patient.BedAssignment{}, err
	}

	n, err := s.wards.Count(ctx)
	if err != nil {
		return patient.BedAssignment{}, fmt.Errorf("counting wards: %w", err)
	}
	if n == 0 {
		return patient.BedAssignment{}, ward.ErrNoWardsRegistered
	}

	w, err := s.wards.GetByID(ctx, wardID)
	if err != nil {
		return patient.BedAssignment{}, err
	}
	if err := w.ValidateBed(bedNumber); err != nil {
		return patient.BedAssignment{}, err
	}

	// Occupancy is not tracked: two patients may hold the same bed.
	entry := patient.BedAssignment{
		ID:         uuid.New(),
		WardID:     w.ID,
		WardName:   w.Name,
		BedNumber:  bedNumber,
		AssignedAt: s.now().UTC(),
	}
	if _, err := s.patients.Update(ctx, patientID, func(p *patient.Patient) error {
		return p.AddBedAssignment(entry)
	}); err != nil {
		return patient.BedAssignment{}, err
	}

	s.metrics.BedAssignmentsTotal.WithLabelValues(strconv.Itoa(w.ID)).Inc()
	s.audit(ctx, domain.ActionAssignBed, "bed_assignment", entry.ID.String(), patientID, entry)
	s.log.Info("bed assigned",
		zap.Int64("patient_id", patientID),
		zap.Int("ward_id", w.ID),
		zap.Int("bed_number", bedNumber),
	)
	return entry, nil
}

func (s *ClinicalRecordService) RegisterVisit(ctx context.Context, patientID int64, staffID string) (_ patient.Visit, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.RegisterVisit", trace.WithAttributes(
		attribute.Int64("patient.id", patientID),
		attribute.String("staff.id", staffID),
	))
	defer func() { s.finish(span, opRegisterVisit, err) }()

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return patient.Visit{}, err
	}

	physician, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return patient.Visit{}, err
	}

	at := s.now().UTC()
	entry := patient.Visit{
		ID:        uuid.New(),
		Physician: physician.FullName,
		VisitedAt: at,
		Time:      at.Format(patient.VisitTimeLayout),
	}
	if _, err := s.patients.Update(ctx, patientID, func(p *patient.Patient) error {
		return p.AddVisit(entry)
	}); err != nil {
		return patient.Visit{}, err
	}

	s.audit(ctx, domain.ActionVisit, "visit", entry.ID.String(), patientID, entry)
	s.log.Info("visit registered",
		zap.Int64("patient_id", patientID),
		zap.String("staff_id", staffID),
	)
	return entry, nil
}

func (s *ClinicalRecordService) AttachDiagnosis(ctx context.Context, patientID int64, code string) (_ patient.DiagnosisEntry, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.AttachDiagnosis", trace.WithAttributes(
		attribute.Int64("patient.id", patientID),
		attribute.String("diagnosis.code", code),
	))
	defer func() { s.finish(span, opAttachDiagnosis, err) }()

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return patient.DiagnosisEntry{}, err
	}

	d, err := s.diagnoses.GetByCode(ctx, code)
	if err != nil {
		return patient.DiagnosisEntry{}, err
	}

	entry := patient.DiagnosisEntry{
		ID:          uuid.New(),
		Code:        d.Code,
		Description: d.Description,
		RecordedAt:  s.now().UTC(),
	}
	if _, err := s.patients.Update(ctx, patientID, func(p *patient.Patient) error {
		return p.AddDiagnosis(entry)
	}); err != nil {
		return patient.DiagnosisEntry{}, err
	}

	s.audit(ctx, domain.ActionDiagnose, "diagnosis_entry", entry.ID.String(), patientID, entry)
	s.log.Info("diagnosis attached",
		zap.Int64("patient_id", patientID),
		zap.String("diagnosis_code", d.Code),
	)
	return entry, nil
}

// IssueVisitCard issues the next visitor pass. The cap check and the append
// happen inside the same Update call, so concurrent callers cannot overshoot.
func (s *ClinicalRecordService) IssueVisitCard(ctx context.Context, cmd *patient.IssueVisitCardCommand) (_ patient.VisitCard, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.IssueVisitCard", trace.WithAttributes(
		attribute.Int64("patient.id", cmd.PatientID),
	))
	defer func() { s.finish(span, opIssueVisitCard, err) }()

	var card patient.VisitCard
	if _, err := s.patients.Update(ctx, cmd.PatientID, func(p *patient.Patient) error {
		c, err := p.IssueVisitCard(cmd.StartTime, cmd.EndTime, cmd.VisitorName)
		if err != nil {
			return err
		}
		card = c
		return nil
	}); err != nil {
		if errors.Is(err, patient.ErrCardLimitReached) {
			s.metrics.VisitCardLimitReached.Inc()
			s.log.Warn("visit card limit reached", zap.Int64("patient_id", cmd.PatientID))
		}
		return patient.VisitCard{}, err
	}

	span.SetAttributes(attribute.String("card.number", card.Number))
	s.metrics.VisitCardsIssued.Inc()
	s.audit(ctx, domain.ActionIssueCard, "visit_card", card.Number, cmd.PatientID, card)
	s.log.Info("visit card issued",
		zap.Int64("patient_id", cmd.PatientID),
		zap.String("card_number", card.Number),
	)
	return card, nil
}

// Discharge moves the patient into the archive. Any later operation on the id fails with ErrPatientNotFound.
func (s *ClinicalRecordService) Discharge(ctx context.Context, patientID int64) (_ *patient.Patient, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.Discharge", trace.WithAttributes(
		attribute.Int64("patient.id", patientID),
	))
	defer func() { s.finish(span, opDischarge, err) }()

	p, err := s.patients.Discharge(ctx, patientID)
	if err != nil {
		return nil, err
	}

	s.metrics.DischargesTotal.Inc()
	s.metrics.ActivePatients.Dec()
	s.metrics.ArchivedPatients.Inc()
	s.audit(ctx, domain.ActionDischarge, "patient", strconv.FormatInt(patientID, 10), patientID, nil)
	s.log.Info("patient discharged", zap.Int64("patient_id", patientID))
	return p, nil
}

// BuildHistory reads active patients only; archived records are served by PatientService.
func (s *ClinicalRecordService) BuildHistory(ctx context.Context, patientID int64) (_ *patient.ClinicalHistory, err error) {
	ctx, span := s.tracer.Start(ctx, "ClinicalRecordService.BuildHistory", trace.WithAttributes(
		attribute.Int64("patient.id", patientID),
	))
	defer func() { s.finish(span, opBuildHistory, err) }()

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return p.History(), nil
}

func (s *ClinicalRecordService) finish(span trace.Span, op string, err error) {
	defer span.End()

	if err != nil {
		code := ErrorCode(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		s.metrics.ObserveOperation(op, code)
		if code == "INTERNAL" {
			s.log.Error("clinical operation failed", zap.String("operation", op), zap.Error(err))
		} else {
			s.log.Debug("clinical operation rejected", zap.String("operation", op), zap.Error(err))
		}
		return
	}
	s.metrics.ObserveOperation(op, "ok")
}

func (s *ClinicalRecordService) audit(ctx context.Context, action domain.AuditAction, resource, resourceID string, patientID int64, changes any) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		PatientID:    patientID,
		Changes:      marshalChanges(changes),
	})
}

func marshalChanges(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
