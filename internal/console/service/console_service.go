// Package service implements the console operations over the record store,
// the lifecycle manager and the command codec.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentfleet/fleetconsole/internal/console/command"
	"github.com/agentfleet/fleetconsole/internal/console/confirm"
	"github.com/agentfleet/fleetconsole/internal/console/lifecycle"
	"github.com/agentfleet/fleetconsole/internal/console/query"
	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

// ErrServerRunning is returned when a delete is attempted on a record that
// is not offline.
var ErrServerRunning = errors.New("server must be offline before deletion")

const defaultMaxAgents = 10

type consoleServiceImpl struct {
	store     *store.Store
	lifecycle *lifecycle.Manager
	confirm   *confirm.Policy
	createdBy string
}

// NewConsoleService creates a console service over the given store and
// lifecycle manager. createdBy is the placeholder identity stamped on new
// records; there is no real authentication in this system.
func NewConsoleService(st *store.Store, lm *lifecycle.Manager, policy *confirm.Policy, createdBy string) ConsoleService {
	return &consoleServiceImpl{
		store:     st,
		lifecycle: lm,
		confirm:   policy,
		createdBy: createdBy,
	}
}

func (s *consoleServiceImpl) ListServers(_ context.Context, filter query.Filter) (*query.Result, error) {
	result := query.Run(s.store.List(), filter)
	return &result, nil
}

func (s *consoleServiceImpl) GetServer(_ context.Context, id string) (*models.ServerRecord, error) {
	record, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *consoleServiceImpl) GetEditForm(_ context.Context, id string) (*EditForm, error) {
	record, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	form := &EditForm{Server: record}
	if record.Kind == models.ServerKindManaged {
		decoded := command.Decode(record.Command, record.Tools)
		form.Tools = decoded.Drafts
		form.DecodeSource = decoded.Source
	} else {
		form.Tools = []models.ToolDraft{}
		form.DecodeSource = command.DecodeStructured
	}
	return form, nil
}

func (s *consoleServiceImpl) CreateServer(_ context.Context, draft *models.ServerDraft) (*models.ServerRecord, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	record := models.ServerRecord{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(draft.Name),
		Kind:             draft.Kind,
		Transport:        draft.Transport,
		Endpoint:         draft.Endpoint,
		MaxAgents:        draft.MaxAgents,
		CreatedBy:        s.createdBy,
		RunStatus:        models.RunStatusOffline,
		AgentsRunning:    0,
		VisibilityStatus: models.VisibilityIdle,
		SourceFiles:      draft.SourceFiles,
		Headers:          draft.Headers,
	}
	if record.MaxAgents <= 0 {
		record.MaxAgents = defaultMaxAgents
	}

	if err := applyCommand(&record, draft); err != nil {
		return nil, err
	}

	if err := s.store.Insert(record); err != nil {
		return nil, err
	}
	created, err := s.store.Get(record.ID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *consoleServiceImpl) UpdateServer(_ context.Context, id string, draft *models.ServerDraft) (*models.ServerRecord, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	// Build the command/tools outside the patch so a codec failure leaves
	// the record untouched.
	staged := models.ServerRecord{Kind: draft.Kind}
	if err := applyCommand(&staged, draft); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(draft.Name)
	patch := store.Patch{
		Name:      &name,
		Transport: &draft.Transport,
		Endpoint:  &draft.Endpoint,
		Command:   &staged.Command,
		Tools:     &staged.Tools,
	}
	if draft.MaxAgents > 0 {
		patch.MaxAgents = &draft.MaxAgents
	}
	if draft.Headers != nil {
		patch.Headers = &draft.Headers
	}
	if draft.SourceFiles != nil {
		patch.SourceFiles = &draft.SourceFiles
	}

	updated, err := s.store.Update(id, patch)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *consoleServiceImpl) DeleteServer(_ context.Context, id string) error {
	record, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if record.RunStatus != models.RunStatusOffline {
		return ErrServerRunning
	}

	s.lifecycle.Cancel(id)
	return s.store.Remove(id)
}

func (s *consoleServiceImpl) ToggleRunStatus(_ context.Context, id string) (*models.ServerRecord, error) {
	record, err := s.lifecycle.ToggleRunStatus(id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *consoleServiceImpl) ToggleVisibility(_ context.Context, id string) (*models.ServerRecord, error) {
	record, err := s.lifecycle.ToggleVisibility(id)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *consoleServiceImpl) SkipDeleteConfirmation() bool {
	return s.confirm.Skip()
}

func (s *consoleServiceImpl) SetSkipDeleteConfirmation(d time.Duration) error {
	return s.confirm.SetSkipFor(d)
}

// applyCommand fills Command and Tools on the record from the draft. For
// managed servers the tool drafts are the source of truth and the command
// is derived; for remote servers the command is taken verbatim.
func applyCommand(record *models.ServerRecord, draft *models.ServerDraft) error {
	if draft.Kind == models.ServerKindManaged {
		encoded, err := command.Encode(draft.Tools)
		if err != nil {
			return err
		}
		record.Command = encoded
		record.Tools = command.RenderAll(draft.Tools)
		return nil
	}
	record.Command = draft.Command
	record.Tools = nil
	return nil
}

func validateDraft(draft *models.ServerDraft) error {
	if strings.TrimSpace(draft.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if draft.Kind == models.ServerKindManaged {
		if len(draft.Tools) == 0 {
			return &ValidationError{Field: "tools", Message: "at least one tool is required"}
		}
		if err := command.ValidateDrafts(draft.Tools); err != nil {
			return &ValidationError{Field: "tools", Message: err.Error()}
		}
	}
	return nil
}
