// Package store holds the authoritative in-memory collection of server
// records, ordered newest-first.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/agentfleet/fleetconsole/pkg/models"
)

// Common store errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Patch describes a partial update to a server record. Nil fields are left
// untouched.
type Patch struct {
	Name             *string
	Command          *string
	RunStatus        *models.RunStatus
	Transport        *models.Transport
	Endpoint         *string
	AgentsRunning    *int
	MaxAgents        *int
	IsPublic         *bool
	VisibilityStatus *models.VisibilityStatus
	Tools            *[]models.Tool
	SourceFiles      *[]models.SourceFile
	Headers          *map[string]string
}

// Store is the in-memory record collection. All methods are safe for
// concurrent use; records are copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*models.ServerRecord
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp LastModified.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]*models.ServerRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert prepends a new record. Returns ErrAlreadyExists if the id is
// already present.
func (s *Store) Insert(record models.ServerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return ErrAlreadyExists
	}

	record.LastModified = s.now()
	stored := record.Clone()
	s.records[record.ID] = &stored
	s.order = append([]string{record.ID}, s.order...)
	return nil
}

// Update merges the patch into the record and refreshes LastModified.
// Returns ErrNotFound if the id is absent.
func (s *Store) Update(id string, patch Patch) (models.ServerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return models.ServerRecord{}, ErrNotFound
	}

	applyPatch(record, patch)
	// Detach any backing arrays the patch brought in so later caller
	// mutations cannot reach into the store.
	*record = record.Clone()
	record.LastModified = s.now()
	return record.Clone(), nil
}

// Apply mutates the record in place without refreshing LastModified.
// Transition resolution uses this: only the initial transition of a
// lifecycle toggle counts as a user-visible modification.
func (s *Store) Apply(id string, mutate func(*models.ServerRecord)) (models.ServerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return models.ServerRecord{}, ErrNotFound
	}

	mutate(record)
	return record.Clone(), nil
}

// Remove deletes the record. Returns ErrNotFound if the id is absent.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}

	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of the record. Returns ErrNotFound if the id is absent.
func (s *Store) Get(id string) (models.ServerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return models.ServerRecord{}, ErrNotFound
	}
	return record.Clone(), nil
}

// List returns copies of all records in insertion order, newest first.
func (s *Store) List() []models.ServerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ServerRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func applyPatch(record *models.ServerRecord, patch Patch) {
	if patch.Name != nil {
		record.Name = *patch.Name
	}
	if patch.Command != nil {
		record.Command = *patch.Command
	}
	if patch.RunStatus != nil {
		record.RunStatus = *patch.RunStatus
	}
	if patch.Transport != nil {
		record.Transport = *patch.Transport
	}
	if patch.Endpoint != nil {
		record.Endpoint = *patch.Endpoint
	}
	if patch.AgentsRunning != nil {
		record.AgentsRunning = *patch.AgentsRunning
	}
	if patch.MaxAgents != nil {
		record.MaxAgents = *patch.MaxAgents
	}
	if patch.IsPublic != nil {
		record.IsPublic = *patch.IsPublic
	}
	if patch.VisibilityStatus != nil {
		record.VisibilityStatus = *patch.VisibilityStatus
	}
	if patch.Tools != nil {
		record.Tools = *patch.Tools
	}
	if patch.SourceFiles != nil {
		record.SourceFiles = *patch.SourceFiles
	}
	if patch.Headers != nil {
		record.Headers = *patch.Headers
	}
}
