package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
)

// PatientStore owns both the active registry and the archive under one lock,
// so a discharge is a single state transition: readers see the patient in
// exactly one of the two collections.
type PatientStore struct {
	mu       sync.RWMutex
	active   *orderedIndex[int64, *patient.Patient]
	archived []*patient.Patient
}

func NewPatientStore() *PatientStore {
	return &PatientStore{active: newOrderedIndex[int64, *patient.Patient]()}
}

var (
	_ patient.Repository = (*PatientStore)(nil)
	_ patient.Archive    = (*ArchiveView)(nil)
)

func (s *PatientStore) Create(_ context.Context, p *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active.has(p.ID) {
		return patient.ErrPatientAlreadyExists
	}
	s.active.put(p.ID, p.Clone())
	return nil
}

func (s *PatientStore) GetByID(_ context.Context, id int64) (*patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.active.get(id)
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p.Clone(), nil
}

func (s *PatientStore) List(_ context.Context) ([]*patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.active.values()), nil
}

// Update applies fn to a working copy and commits it only when fn succeeds.
func (s *PatientStore) Update(_ context.Context, id int64, fn func(p *patient.Patient) error) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.active.get(id)
	if !ok {
		return nil, patient.ErrPatientNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	// fn must not change identity or lifecycle; discharge has its own path.
	working.ID = current.ID
	working.Status = current.Status
	working.RegisteredAt = current.RegisteredAt

	s.active.put(id, working)
	return working.Clone(), nil
}

func (s *PatientStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active.remove(id); !ok {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (s *PatientStore) Discharge(_ context.Context, id int64) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.active.get(id)
	if !ok {
		return nil, patient.ErrPatientNotFound
	}

	archived := p.Clone()
	if err := archived.Archive(); err != nil {
		return nil, err
	}

	s.active.remove(id)
	s.archived = append(s.archived, archived)
	return archived.Clone(), nil
}

func (s *PatientStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.len(), nil
}

// Archive returns the read-only view over discharged patients.
func (s *PatientStore) Archive() *ArchiveView {
	return &ArchiveView{store: s}
}

// ArchiveView reads the archive of a PatientStore. Records in it are never mutated.
type ArchiveView struct {
	store *PatientStore
}

func (a *ArchiveView) FindByID(_ context.Context, id int64) ([]*patient.Patient, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	var out []*patient.Patient
	for _, p := range a.store.archived {
		if p.ID == id {
			out = append(out, p.Clone())
		}
	}
	if len(out) == 0 {
		return nil, patient.ErrPatientNotFound
	}
	return out, nil
}

func (a *ArchiveView) List(_ context.Context) ([]*patient.Patient, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	return cloneAll(a.store.archived), nil
}

func (a *ArchiveView) Count(_ context.Context) (int, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return len(a.store.archived), nil
}

func cloneAll(ps []*patient.Patient) []*patient.Patient {
	out := make([]*patient.Patient, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Clone())
	}
	return out
}
