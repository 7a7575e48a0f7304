package service

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditLog, int, error)
}

type AuditService struct {
	repo    AuditRepository
	metrics *metrics.Collector
	log     *zap.Logger
	entries chan *domain.AuditLog
	done    chan struct{}
	now     func() time.Time

	// mu guards closed and the sends on entries.
	mu     sync.RWMutex
	closed bool
}

const DefaultAuditBufferSize = 10_000

func NewAuditService(repo AuditRepository, bufferSize int, m *metrics.Collector, log *zap.Logger) *AuditService {
	if bufferSize <= 0 {
		bufferSize = DefaultAuditBufferSize
	}
	svc := &AuditService{
		repo:    repo,
		metrics: m,
		log:     log,
		entries: make(chan *domain.AuditLog, bufferSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
// A nil service discards entries, which is how auditing is switched off.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	meta := domain.RequestMetaFromContext(ctx)
	al := &domain.AuditLog{
		ID:           uuid.New(),
		OccurredAt:   s.now().UTC(),
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		PatientID:    entry.PatientID,
		RequestID:    meta.RequestID,
		IPAddress:    meta.IPAddress,
		Changes:      entry.Changes,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.metrics.AuditBufferDropped.Inc()
		s.log.Warn("audit service stopped, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
		)
		return
	}

	select {
	case s.entries <- al:
	default:
		s.metrics.AuditBufferDropped.Inc()
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
		)
	}
}

// Shutdown stops accepting entries and waits for the worker to drain the buffer.
// Entries logged afterwards are dropped. Calling it again only waits.
func (s *AuditService) Shutdown(ctx context.Context) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else {
			s.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}

// ListLogs pages through persisted entries, oldest first. Entries still in the
// buffer are not visible yet.
func (s *AuditService) ListLogs(ctx context.Context, limit, offset int) ([]domain.AuditLog, int, error) {
	if s == nil {
		return []domain.AuditLog{}, 0, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
