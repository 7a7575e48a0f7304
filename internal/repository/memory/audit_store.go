package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
)

// AuditStore keeps the audit trail in append order.
type AuditStore struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

// List returns at most limit entries starting at offset. limit <= 0 means all.
func (s *AuditStore) List(_ context.Context, limit, offset int) ([]domain.AuditLog, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.entries)
	if offset >= total {
		return []domain.AuditLog{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]domain.AuditLog, end-offset)
	copy(out, s.entries[offset:end])
	return out, total, nil
}
