package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/domain/patient"
)

func seedPatient(t *testing.T, s *PatientStore, id int64) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &patient.Patient{
		ID:        id,
		FirstName: "Patient",
		LastName:  "Test",
		Status:    patient.StatusActive,
	}))
}

func TestPatientStore_CreateRejectsDuplicateActiveID(t *testing.T) {
	s := NewPatientStore()
	seedPatient(t, s, 1)

	err := s.Create(context.Background(), &patient.Patient{ID: 1, Status: patient.StatusActive})
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)
}

func TestPatientStore_ListKeepsRegistrationOrder(t *testing.T) {
	s := NewPatientStore()
	for _, id := range []int64{30, 10, 20} {
		seedPatient(t, s, id)
	}
	require.NoError(t, s.Delete(context.Background(), 10))
	seedPatient(t, s, 10)

	ps, err := s.List(context.Background())
	require.NoError(t, err)
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{30, 20, 10}, ids)
}

func TestPatientStore_GetReturnsCopy(t *testing.T) {
	s := NewPatientStore()
	seedPatient(t, s, 1)

	p, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)
	p.FirstName = "Mutated"
	p.Visits = append(p.Visits, patient.Visit{Physician: "x"})

	again, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Patient", again.FirstName)
	assert.Empty(t, again.Visits)
}

func TestPatientStore_UpdateDiscardsWorkOnError(t *testing.T) {
	s := NewPatientStore()
	seedPatient(t, s, 1)
	boom := errors.New("boom")

	_, err := s.Update(context.Background(), 1, func(p *patient.Patient) error {
		p.FirstName = "Half-applied"
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Patient", p.FirstName)
}

func TestPatientStore_UpdateCannotChangeIdentityOrStatus(t *testing.T) {
	s := NewPatientStore()
	seedPatient(t, s, 1)

	updated, err := s.Update(context.Background(), 1, func(p *patient.Patient) error {
		p.ID = 99
		p.Status = patient.StatusArchived
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, patient.StatusActive, updated.Status)
}

func TestPatientStore_DischargeMovesToArchiveOnce(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore()
	archive := s.Archive()
	seedPatient(t, s, 100)

	archived, err := s.Discharge(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, patient.StatusArchived, archived.Status)

	_, err = s.GetByID(ctx, 100)
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)

	_, err = s.Discharge(ctx, 100)
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)

	_, err = s.Update(ctx, 100, func(*patient.Patient) error { return nil })
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)

	records, err := archive.FindByID(ctx, 100)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Patient", records[0].FirstName)

	n, _ := archive.Count(ctx)
	assert.Equal(t, 1, n)
	n, _ = s.Count(ctx)
	assert.Equal(t, 0, n)
}

func TestPatientStore_RetiredIDCanBeReusedAndArchiveKeepsBoth(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore()

	seedPatient(t, s, 5)
	_, err := s.Discharge(ctx, 5)
	require.NoError(t, err)

	seedPatient(t, s, 5)
	_, err = s.Discharge(ctx, 5)
	require.NoError(t, err)

	records, err := s.Archive().FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = s.Archive().FindByID(ctx, 6)
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestPatientStore_ConcurrentCardIssuanceNeverExceedsCap(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore()
	seedPatient(t, s, 42)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		capped    atomic.Int32
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, 42, func(p *patient.Patient) error {
				_, err := p.IssueVisitCard("10:00", "11:00", "v")
				return err
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, patient.ErrCardLimitReached):
				capped.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(patient.MaxVisitCards), succeeded.Load())
	assert.Equal(t, int32(64-patient.MaxVisitCards), capped.Load())

	p, err := s.GetByID(ctx, 42)
	require.NoError(t, err)
	require.Len(t, p.VisitCards, patient.MaxVisitCards)
	for i, c := range p.VisitCards {
		assert.Equal(t, patient.CardNumber(42, i+1), c.Number)
	}
}

func TestPatientStore_PatientIsAlwaysInExactlyOneCollection(t *testing.T) {
	ctx := context.Background()
	s := NewPatientStore()
	seedPatient(t, s, 7)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Discharge(ctx, 7)
	}()

	for {
		s.mu.RLock()
		_, inActive := s.active.get(7)
		inArchive := len(s.archived) == 1
		s.mu.RUnlock()
		require.True(t, inActive != inArchive, "patient must be in exactly one collection")

		select {
		case <-done:
			return
		default:
		}
	}
}
