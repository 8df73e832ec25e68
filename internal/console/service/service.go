package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/command"
	"github.com/agentfleet/fleetconsole/internal/console/query"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

// ValidationError reports a form-level problem with a create or edit
// request. It never indicates corrupted state: the store is untouched when
// one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// EditForm is the payload served to the edit view: the current record plus
// the tool drafts recovered from its command string.
type EditForm struct {
	Server       models.ServerRecord  `json:"server"`
	Tools        []models.ToolDraft   `json:"tools"`
	DecodeSource command.DecodeSource `json:"decodeSource"`
}

// ConsoleService defines the operations the console surfaces invoke.
type ConsoleService interface {
	// ListServers runs the query pipeline over the current record list.
	ListServers(ctx context.Context, filter query.Filter) (*query.Result, error)
	// GetServer retrieves a single record by id.
	GetServer(ctx context.Context, id string) (*models.ServerRecord, error)
	// GetEditForm retrieves a record with its command decoded back into
	// tool drafts for the edit view.
	GetEditForm(ctx context.Context, id string) (*EditForm, error)
	// CreateServer validates the draft and prepends a new record.
	CreateServer(ctx context.Context, draft *models.ServerDraft) (*models.ServerRecord, error)
	// UpdateServer validates the draft and merges it into the record.
	UpdateServer(ctx context.Context, id string, draft *models.ServerDraft) (*models.ServerRecord, error)
	// DeleteServer removes a record. Rejected unless the record is
	// offline. Pending lifecycle transitions are cancelled.
	DeleteServer(ctx context.Context, id string) error
	// ToggleRunStatus starts or stops a record.
	ToggleRunStatus(ctx context.Context, id string) (*models.ServerRecord, error)
	// ToggleVisibility publishes or unpublishes a record.
	ToggleVisibility(ctx context.Context, id string) (*models.ServerRecord, error)

	// SkipDeleteConfirmation reports whether deletes currently bypass the
	// confirmation step.
	SkipDeleteConfirmation() bool
	// SetSkipDeleteConfirmation opens a window during which deletes skip
	// the confirmation step.
	SetSkipDeleteConfirmation(d time.Duration) error
}
