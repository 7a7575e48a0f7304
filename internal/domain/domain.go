package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionCreate    AuditAction = "create"
	ActionUpdate    AuditAction = "update"
	ActionDelete    AuditAction = "delete"
	ActionAssignBed AuditAction = "assign_bed"
	ActionVisit     AuditAction = "register_visit"
	ActionDiagnose  AuditAction = "attach_diagnosis"
	ActionIssueCard AuditAction = "issue_visit_card"
	ActionDischarge AuditAction = "discharge"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`

	// What
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`

	// Zero when the resource is not tied to a patient
	PatientID int64 `json:"patient_id,omitempty"`

	RequestID string `json:"request_id,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`

	Changes string `json:"changes,omitempty"`
}

type requestMetaKey struct{}

// RequestMeta identifies the inbound request that triggered an operation.
type RequestMeta struct {
	RequestID string
	IPAddress string
}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
