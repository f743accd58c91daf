package storage

import (
	"errors"
	"sync"

	"github.com/eugenenazirov/siteconf/internal/composer"
)

var (
	// ErrNotPublished is returned when the record is read before it has been published.
	ErrNotPublished = errors.New("configuration record has not been published")
	// ErrAlreadyPublished is returned when a second record is published.
	ErrAlreadyPublished = errors.New("configuration record is already published")
)

// Storage holds the configuration record handed to the host.
type Storage interface {
	Record() (composer.Record, error)
	Publish(rec composer.Record) error
}

// MemoryStorage keeps the record in-memory and guards access with a RWMutex.
// The record can be published once; afterwards it is read-only.
type MemoryStorage struct {
	mu        sync.RWMutex
	record    composer.Record
	published bool
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Record returns a deep copy of the published record.
func (s *MemoryStorage) Record() (composer.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.published {
		return composer.Record{}, ErrNotPublished
	}
	return s.record.Clone(), nil
}

// Publish stores a copy of rec.
func (s *MemoryStorage) Publish(rec composer.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.published {
		return ErrAlreadyPublished
	}
	s.record = rec.Clone()
	s.published = true
	return nil
}
