package v0

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/agentfleet/fleetconsole/internal/console/config"
)

// HealthBody is the health check payload
type HealthBody struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"dev"`
}

// PingBody is the ping payload
type PingBody struct {
	Pong bool `json:"pong" example:"true"`
}

// VersionBody contains build and version details
type VersionBody struct {
	Version   string `json:"version" example:"1.0.0"`
	GitCommit string `json:"gitCommit" example:"abc1234"`
	BuildTime string `json:"buildTime" example:"2026-01-02T15:04:05Z"`
}

// RegisterHealthEndpoint registers the health check endpoint
func RegisterHealthEndpoint(api huma.API, pathPrefix string, cfg *config.Config) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/health",
		Summary:     "Health check",
		Description: "Check the health status of the console API",
		Tags:        []string{"health"},
	}, func(ctx context.Context, input *struct{}) (*Response[HealthBody], error) {
		return &Response[HealthBody]{
			Body: HealthBody{Status: "ok", Version: cfg.Version},
		}, nil
	})
}

// RegisterPingEndpoint registers the ping endpoint
func RegisterPingEndpoint(api huma.API, pathPrefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "ping" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/ping",
		Summary:     "Ping",
		Description: "Simple ping endpoint for testing connectivity",
		Tags:        []string{"ping"},
	}, func(ctx context.Context, input *struct{}) (*Response[PingBody], error) {
		return &Response[PingBody]{Body: PingBody{Pong: true}}, nil
	})
}

// RegisterVersionEndpoint registers the version information endpoint
func RegisterVersionEndpoint(api huma.API, pathPrefix string, versionInfo *VersionBody) {
	huma.Register(api, huma.Operation{
		OperationID: "version" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodGet,
		Path:        pathPrefix + "/version",
		Summary:     "Version information",
		Description: "Retrieve build and version details",
		Tags:        []string{"version"},
	}, func(ctx context.Context, input *struct{}) (*Response[VersionBody], error) {
		return &Response[VersionBody]{Body: *versionInfo}, nil
	})
}
