// Package testing provides test utilities for the console service.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/query"
	"github.com/agentfleet/fleetconsole/internal/console/service"
	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

// FakeConsole is a configurable fake implementation of
// service.ConsoleService for testing. It supports both data-driven setup
// via struct fields and function hooks for custom behavior.
type FakeConsole struct {
	mu sync.Mutex

	// Data fields for simple data-driven tests
	Servers  []models.ServerRecord
	SkipFlag bool

	// Call counters for verification
	ToggleRunStatusCalls  int
	ToggleVisibilityCalls int
	DeleteServerCalls     int

	// Function hooks for custom behavior (take precedence over data
	// fields when set)
	ListServersFn      func(ctx context.Context, filter query.Filter) (*query.Result, error)
	GetServerFn        func(ctx context.Context, id string) (*models.ServerRecord, error)
	GetEditFormFn      func(ctx context.Context, id string) (*service.EditForm, error)
	CreateServerFn     func(ctx context.Context, draft *models.ServerDraft) (*models.ServerRecord, error)
	UpdateServerFn     func(ctx context.Context, id string, draft *models.ServerDraft) (*models.ServerRecord, error)
	DeleteServerFn     func(ctx context.Context, id string) error
	ToggleRunStatusFn  func(ctx context.Context, id string) (*models.ServerRecord, error)
	ToggleVisibilityFn func(ctx context.Context, id string) (*models.ServerRecord, error)
}

// NewFakeConsole creates an empty fake.
func NewFakeConsole() *FakeConsole {
	return &FakeConsole{}
}

func (f *FakeConsole) ListServers(ctx context.Context, filter query.Filter) (*query.Result, error) {
	if f.ListServersFn != nil {
		return f.ListServersFn(ctx, filter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result := query.Run(f.Servers, filter)
	return &result, nil
}

func (f *FakeConsole) GetServer(ctx context.Context, id string) (*models.ServerRecord, error) {
	if f.GetServerFn != nil {
		return f.GetServerFn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Servers {
		if f.Servers[i].ID == id {
			record := f.Servers[i]
			return &record, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *FakeConsole) GetEditForm(ctx context.Context, id string) (*service.EditForm, error) {
	if f.GetEditFormFn != nil {
		return f.GetEditFormFn(ctx, id)
	}
	record, err := f.GetServer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &service.EditForm{Server: *record, Tools: []models.ToolDraft{}}, nil
}

func (f *FakeConsole) CreateServer(ctx context.Context, draft *models.ServerDraft) (*models.ServerRecord, error) {
	if f.CreateServerFn != nil {
		return f.CreateServerFn(ctx, draft)
	}
	return nil, store.ErrNotFound
}

func (f *FakeConsole) UpdateServer(ctx context.Context, id string, draft *models.ServerDraft) (*models.ServerRecord, error) {
	if f.UpdateServerFn != nil {
		return f.UpdateServerFn(ctx, id, draft)
	}
	return nil, store.ErrNotFound
}

func (f *FakeConsole) DeleteServer(ctx context.Context, id string) error {
	f.mu.Lock()
	f.DeleteServerCalls++
	f.mu.Unlock()
	if f.DeleteServerFn != nil {
		return f.DeleteServerFn(ctx, id)
	}
	return store.ErrNotFound
}

func (f *FakeConsole) ToggleRunStatus(ctx context.Context, id string) (*models.ServerRecord, error) {
	f.mu.Lock()
	f.ToggleRunStatusCalls++
	f.mu.Unlock()
	if f.ToggleRunStatusFn != nil {
		return f.ToggleRunStatusFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (f *FakeConsole) ToggleVisibility(ctx context.Context, id string) (*models.ServerRecord, error) {
	f.mu.Lock()
	f.ToggleVisibilityCalls++
	f.mu.Unlock()
	if f.ToggleVisibilityFn != nil {
		return f.ToggleVisibilityFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (f *FakeConsole) SkipDeleteConfirmation() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SkipFlag
}

func (f *FakeConsole) SetSkipDeleteConfirmation(time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SkipFlag = true
	return nil
}
