// Package store keeps rendered invoices in memory, keyed by invoice
// number. The store is the only owner of rendered bytes: a download
// request returns the cached document, it is never re-rendered.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/Brayaaan/Finbot/pkg/models"
)

// ErrNotFound is returned when no invoice exists under the given number.
var ErrNotFound = errors.New("invoice not found")

// StoredInvoice is one entry of the store.
type StoredInvoice struct {
	Number    string
	Record    models.Invoice
	PDF       []byte
	CreatedAt time.Time
}

// Store is the keyed invoice mapping shared by the request handlers.
type Store interface {
	// Put inserts or unconditionally overwrites the entry for number.
	Put(number string, record models.Invoice, pdf []byte, createdAt time.Time)

	// Get returns the entry for number or ErrNotFound.
	Get(number string) (StoredInvoice, error)

	// List returns a snapshot of all entries in unspecified order.
	List() []StoredInvoice
}

type memoryStore struct {
	mu       sync.RWMutex
	invoices map[string]StoredInvoice
}

// NewMemoryStore creates an empty in-memory store. Replacement is atomic
// per key; concurrent writers to the same number race and the last write
// wins, which matches the documented overwrite semantics.
func NewMemoryStore() Store {
	return &memoryStore{invoices: make(map[string]StoredInvoice)}
}

func (s *memoryStore) Put(number string, record models.Invoice, pdf []byte, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[number] = StoredInvoice{
		Number:    number,
		Record:    record,
		PDF:       pdf,
		CreatedAt: createdAt,
	}
}

func (s *memoryStore) Get(number string) (StoredInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.invoices[number]
	if !ok {
		return StoredInvoice{}, ErrNotFound
	}
	return entry, nil
}

func (s *memoryStore) List() []StoredInvoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]StoredInvoice, 0, len(s.invoices))
	for _, entry := range s.invoices {
		entries = append(entries, entry)
	}
	return entries
}
