package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/diagnosis"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/ward"
)

var (
	_ ward.Repository      = (*WardStore)(nil)
	_ staff.Repository     = (*StaffStore)(nil)
	_ diagnosis.Repository = (*DiagnosisStore)(nil)
)

type WardStore struct {
	mu    sync.RWMutex
	wards *orderedIndex[int, ward.Ward]
}

func NewWardStore() *WardStore {
	return &WardStore{wards: newOrderedIndex[int, ward.Ward]()}
}

func (s *WardStore) Create(_ context.Context, w ward.Ward) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wards.has(w.ID) {
		return ward.ErrWardAlreadyExists
	}
	s.wards.put(w.ID, w)
	return nil
}

func (s *WardStore) GetByID(_ context.Context, id int) (ward.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wards.get(id)
	if !ok {
		return ward.Ward{}, ward.ErrWardNotFound
	}
	return w, nil
}

func (s *WardStore) List(_ context.Context) ([]ward.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wards.values(), nil
}

func (s *WardStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wards.len(), nil
}

type StaffStore struct {
	mu      sync.RWMutex
	members *orderedIndex[string, staff.Staff]
}

func NewStaffStore() *StaffStore {
	return &StaffStore{members: newOrderedIndex[string, staff.Staff]()}
}

func (s *StaffStore) Create(_ context.Context, m staff.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.members.has(m.ID) {
		return staff.ErrStaffAlreadyExists
	}
	s.members.put(m.ID, m)
	return nil
}

func (s *StaffStore) GetByID(_ context.Context, id string) (staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members.get(id)
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return m, nil
}

func (s *StaffStore) List(_ context.Context) ([]staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.values(), nil
}

func (s *StaffStore) Rename(_ context.Context, id, fullName string) (staff.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members.get(id)
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	m.FullName = fullName
	s.members.put(id, m)
	return m, nil
}

func (s *StaffStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members.remove(id); !ok {
		return staff.ErrStaffNotFound
	}
	return nil
}

func (s *StaffStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.len(), nil
}

type DiagnosisStore struct {
	mu      sync.RWMutex
	catalog *orderedIndex[string, diagnosis.Diagnosis]
}

func NewDiagnosisStore() *DiagnosisStore {
	return &DiagnosisStore{catalog: newOrderedIndex[string, diagnosis.Diagnosis]()}
}

func (s *DiagnosisStore) Create(_ context.Context, d diagnosis.Diagnosis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog.has(d.Code) {
		return diagnosis.ErrDiagnosisAlreadyExists
	}
	s.catalog.put(d.Code, d)
	return nil
}

func (s *DiagnosisStore) GetByCode(_ context.Context, code string) (diagnosis.Diagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.catalog.get(code)
	if !ok {
		return diagnosis.Diagnosis{}, diagnosis.ErrDiagnosisNotFound
	}
	return d, nil
}

func (s *DiagnosisStore) List(_ context.Context) ([]diagnosis.Diagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.values(), nil
}

func (s *DiagnosisStore) UpdateDescription(_ context.Context, code, description string) (diagnosis.Diagnosis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.catalog.get(code)
	if !ok {
		return diagnosis.Diagnosis{}, diagnosis.ErrDiagnosisNotFound
	}
	d.Description = description
	s.catalog.put(code, d)
	return d, nil
}

func (s *DiagnosisStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.remove(code); !ok {
		return diagnosis.ErrDiagnosisNotFound
	}
	return nil
}

func (s *DiagnosisStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.len(), nil
}
