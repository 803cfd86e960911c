// Package storetest provides record store fakes for tests: an in-memory
// contracts.RecordStore and an httptest server speaking the REST wire format.
package storetest

import (
	"context"
	"sync"

	"github.com/light-bringer/procat-editor/internal/app/product/contracts"
	"github.com/light-bringer/procat-editor/internal/app/product/domain"
)

// Store is an in-memory record store with failure injection.
type Store struct {
	mu        sync.Mutex
	products  []domain.ProductRecord
	listErr   error
	updateErr error
	listCalls int
	updates   [][]domain.ProductRecord
	gate      chan struct{}
}

var _ contracts.RecordStore = (*Store)(nil)

// NewStore creates a store holding the given records.
func NewStore(records ...domain.ProductRecord) *Store {
	return &Store{products: domain.CopyRecords(records)}
}

// ListProducts returns a copy of the stored records.
func (s *Store) ListProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return domain.CopyRecords(s.products), nil
}

// UpdateProducts applies the titles of the given records by id.
func (s *Store) UpdateProducts(ctx context.Context, records []domain.ProductRecord) error {
	s.mu.Lock()
	s.updates = append(s.updates, domain.CopyRecords(records))
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	for _, r := range records {
		for i := range s.products {
			if s.products[i].ID == r.ID {
				s.products[i].Title = r.Title
			}
		}
	}
	return nil
}

// SetProducts replaces the stored records.
func (s *Store) SetProducts(records ...domain.ProductRecord) {
	s.mu.Lock()
	s.products = domain.CopyRecords(records)
	s.mu.Unlock()
}

// Products returns a copy of the stored records.
func (s *Store) Products() []domain.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CopyRecords(s.products)
}

// FailList makes ListProducts return err until cleared with nil.
func (s *Store) FailList(err error) {
	s.mu.Lock()
	s.listErr = err
	s.mu.Unlock()
}

// FailUpdate makes UpdateProducts return err until cleared with nil.
func (s *Store) FailUpdate(err error) {
	s.mu.Lock()
	s.updateErr = err
	s.mu.Unlock()
}

// HoldUpdates blocks UpdateProducts until the returned release is called.
func (s *Store) HoldUpdates() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// ListCalls returns how many times ListProducts was called.
func (s *Store) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// Updates returns the payload of every UpdateProducts call.
func (s *Store) Updates() [][]domain.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]domain.ProductRecord, len(s.updates))
	for i, u := range s.updates {
		out[i] = domain.CopyRecords(u)
	}
	return out
}
