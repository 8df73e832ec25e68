package v0

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentfleet/fleetconsole/internal/console/lifecycle"
	"github.com/agentfleet/fleetconsole/internal/console/query"
	"github.com/agentfleet/fleetconsole/internal/console/service"
	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

// ListServersInput represents the input for listing servers
type ListServersInput struct {
	Status string `query:"status" doc:"Filter by run status ('All', 'online', 'offline', 'starting', 'stopping')" required:"false" default:"All" example:"online"`
	Search string `query:"search" doc:"Free-text search over name, command, endpoint, transport, creator, source file paths and visibility" required:"false" example:"orders"`
	Page   int    `query:"page" doc:"1-indexed page number" default:"1" minimum:"1" example:"2"`
}

// ServerDetailInput represents the input for operations on a single server
type ServerDetailInput struct {
	ID string `path:"id" doc:"Server record id" example:"8f14e45f-ceea-4e5b-b807-6c4cfa72f3c2"`
}

// DeleteServerInput represents the input for deleting a server
type DeleteServerInput struct {
	ID      string `path:"id" doc:"Server record id"`
	Confirm bool   `query:"confirm" doc:"Explicit confirmation; required unless a skip-confirmation window is active" required:"false"`
}

// ServerListBody is the payload for list endpoints
type ServerListBody struct {
	Servers        []models.ServerRecord `json:"servers"`
	Metadata       ListMetadata          `json:"metadata"`
	CountsByStatus map[string]int        `json:"countsByStatus"`
}

// ListMetadata contains pagination information
type ListMetadata struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
}

// CreateServerInput represents the input for creating a server
type CreateServerInput struct {
	Body models.ServerDraft `body:""`
}

// UpdateServerInput represents the input for updating a server
type UpdateServerInput struct {
	ID   string             `path:"id" doc:"Server record id"`
	Body models.ServerDraft `body:""`
}

// SkipConfirmationInput represents the input for opening a skip window
type SkipConfirmationInput struct {
	Body struct {
		Hours int `json:"hours" minimum:"1" maximum:"168" doc:"How long deletes skip the confirmation step"`
	} `body:""`
}

// RegisterServersEndpoints registers the read endpoints with a custom path
// prefix.
// isAdmin: if true, shows all records; if false, only public records.
func RegisterServersEndpoints(api huma.API, pathPrefix string, console service.ConsoleService, isAdmin bool) {
	tags := []string{"servers"}
	if isAdmin {
		tags = append(tags, "admin")
	}

	// List servers endpoint
	huma.Register(api, huma.Operation{
		OperationID: "list-servers" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/servers",
		Summary:     "List agent servers",
		Description: "Get one page of agent server records with status filtering and free-text search",
		Tags:        tags,
	}, func(ctx context.Context, input *ListServersInput) (*Response[ServerListBody], error) {
		filter := query.Filter{
			Status:     input.Status,
			Search:     input.Search,
			Page:       input.Page,
			PublicOnly: !isAdmin,
		}
		if filter.Status == "" {
			filter.Status = models.StatusFilterAll
		}
		if filter.Page < 1 {
			filter.Page = 1
		}

		result, err := console.ListServers(ctx, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list servers", err)
		}

		return &Response[ServerListBody]{
			Body: ServerListBody{
				Servers: result.Servers,
				Metadata: ListMetadata{
					Page:       result.Page,
					TotalPages: result.TotalPages,
					Count:      len(result.Servers),
					TotalCount: result.TotalCount,
				},
				CountsByStatus: result.CountsByStatus,
			},
		}, nil
	})

	// Get server detail endpoint
	huma.Register(api, huma.Operation{
		OperationID: "get-server" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/servers/{id}",
		Summary:     "Get agent server",
		Description: "Get detailed information about a single agent server record",
		Tags:        tags,
	}, func(ctx context.Context, input *ServerDetailInput) (*Response[models.ServerRecord], error) {
		record, err := console.GetServer(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			return nil, huma.Error500InternalServerError("Failed to get server details", err)
		}
		if !isAdmin && !record.IsPublic {
			return nil, huma.Error404NotFound("Server not found")
		}

		return &Response[models.ServerRecord]{Body: *record}, nil
	})
}

// RegisterEditEndpoints registers the create/update/delete endpoints and
// the edit-form endpoint.
func RegisterEditEndpoints(api huma.API, pathPrefix string, console service.ConsoleService) {
	tags := []string{"servers", "admin"}

	// Edit form endpoint - decodes the command string back into tool drafts
	huma.Register(api, huma.Operation{
		OperationID: "get-server-form" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/servers/{id}/form",
		Summary:     "Get server edit form",
		Description: "Get the record together with the tool drafts recovered from its command string, plus which decode path produced them",
		Tags:        tags,
	}, func(ctx context.Context, input *ServerDetailInput) (*Response[service.EditForm], error) {
		form, err := console.GetEditForm(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			return nil, huma.Error500InternalServerError("Failed to build edit form", err)
		}
		return &Response[service.EditForm]{Body: *form}, nil
	})

	// Create server endpoint
	huma.Register(api, huma.Operation{
		OperationID: "create-server" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/servers",
		Summary:     "Create agent server",
		Description: "Create a new agent server record. New records start offline, private and with zero agents running.",
		Tags:        tags,
	}, func(ctx context.Context, input *CreateServerInput) (*Response[models.ServerRecord], error) {
		record, err := console.CreateServer(ctx, &input.Body)
		if err != nil {
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				return nil, huma.Error400BadRequest(vErr.Error())
			}
			return nil, huma.Error500InternalServerError("Failed to create server", err)
		}
		return &Response[models.ServerRecord]{Body: *record}, nil
	})

	// Update server endpoint
	huma.Register(api, huma.Operation{
		OperationID: "update-server" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPut,
		Path:        pathPrefix + "/servers/{id}",
		Summary:     "Update agent server",
		Description: "Merge the submitted form into an existing record",
		Tags:        tags,
	}, func(ctx context.Context, input *UpdateServerInput) (*Response[models.ServerRecord], error) {
		record, err := console.UpdateServer(ctx, input.ID, &input.Body)
		if err != nil {
			var vErr *service.ValidationError
			if errors.As(err, &vErr) {
				return nil, huma.Error400BadRequest(vErr.Error())
			}
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			return nil, huma.Error500InternalServerError("Failed to update server", err)
		}
		return &Response[models.ServerRecord]{Body: *record}, nil
	})

	// Delete server endpoint
	huma.Register(api, huma.Operation{
		OperationID: "delete-server" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodDelete,
		Path:        pathPrefix + "/servers/{id}",
		Summary:     "Delete agent server",
		Description: "Remove a record permanently. Rejected while the server is not offline. Requires confirm=true unless a skip-confirmation window is active.",
		Tags:        tags,
	}, func(ctx context.Context, input *DeleteServerInput) (*Response[EmptyResponse], error) {
		if !input.Confirm && !console.SkipDeleteConfirmation() {
			return nil, huma.Error412PreconditionFailed("Deletion requires confirmation: retry with confirm=true or open a skip-confirmation window")
		}

		if err := console.DeleteServer(ctx, input.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			if errors.Is(err, service.ErrServerRunning) {
				return nil, huma.Error409Conflict("Server must be offline before deletion")
			}
			return nil, huma.Error500InternalServerError("Failed to delete server", err)
		}

		return &Response[EmptyResponse]{
			Body: EmptyResponse{Message: "Server deleted successfully"},
		}, nil
	})

	// Skip-confirmation endpoint
	huma.Register(api, huma.Operation{
		OperationID: "skip-confirmation" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/confirmation/skip",
		Summary:     "Skip delete confirmations",
		Description: "Open a window during which deletes no longer require the confirmation step",
		Tags:        []string{"admin"},
	}, func(ctx context.Context, input *SkipConfirmationInput) (*Response[EmptyResponse], error) {
		if err := console.SetSkipDeleteConfirmation(time.Duration(input.Body.Hours) * time.Hour); err != nil {
			return nil, huma.Error500InternalServerError("Failed to persist skip-confirmation window", err)
		}
		return &Response[EmptyResponse]{
			Body: EmptyResponse{Message: "Delete confirmations skipped"},
		}, nil
	})
}

// RegisterLifecycleEndpoints registers the start/stop and
// publish/unpublish toggle endpoints.
func RegisterLifecycleEndpoints(api huma.API, pathPrefix string, console service.ConsoleService) {
	tags := []string{"servers", "admin"}

	// Toggle run status endpoint - starts an offline server, stops an
	// online one
	huma.Register(api, huma.Operation{
		OperationID: "toggle-run-status" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/servers/{id}/status/toggle",
		Summary:     "Start or stop a server",
		Description: "Move an offline server to starting or an online server to stopping. The transient state resolves on its own after the transition latency.",
		Tags:        tags,
	}, func(ctx context.Context, input *ServerDetailInput) (*Response[models.ServerRecord], error) {
		record, err := console.ToggleRunStatus(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			if errors.Is(err, lifecycle.ErrTransitionInProgress) {
				return nil, huma.Error409Conflict("A status transition is already in progress")
			}
			return nil, huma.Error500InternalServerError("Failed to toggle run status", err)
		}
		return &Response[models.ServerRecord]{Body: *record}, nil
	})

	// Toggle visibility endpoint - publishes a private server,
	// unpublishes a public one
	huma.Register(api, huma.Operation{
		OperationID: "toggle-visibility" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/servers/{id}/visibility/toggle",
		Summary:     "Publish or unpublish a server",
		Description: "Move the record through publishing or unpublishing; the visibility flag flips when the transition resolves.",
		Tags:        tags,
	}, func(ctx context.Context, input *ServerDetailInput) (*Response[models.ServerRecord], error) {
		record, err := console.ToggleVisibility(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("Server not found")
			}
			if errors.Is(err, lifecycle.ErrTransitionInProgress) {
				return nil, huma.Error409Conflict("A visibility transition is already in progress")
			}
			return nil, huma.Error500InternalServerError("Failed to toggle visibility", err)
		}
		return &Response[models.ServerRecord]{Body: *record}, nil
	})
}
