// Package models contains the shared data model for the fleet console.
package models

import "time"

// RunStatus describes the run state of an agent server.
type RunStatus string

const (
	RunStatusOnline   RunStatus = "online"
	RunStatusOffline  RunStatus = "offline"
	RunStatusStarting RunStatus = "starting"
	RunStatusStopping RunStatus = "stopping"
)

// RunStatuses lists all run states in display order.
var RunStatuses = []RunStatus{RunStatusOnline, RunStatusOffline, RunStatusStarting, RunStatusStopping}

// StatusFilterAll is the filter value that matches every run status.
const StatusFilterAll = "All"

// IsTransient reports whether the status auto-resolves without user input.
func (s RunStatus) IsTransient() bool {
	return s == RunStatusStarting || s == RunStatusStopping
}

// VisibilityStatus describes an in-flight publish/unpublish transition.
type VisibilityStatus string

const (
	VisibilityIdle         VisibilityStatus = "idle"
	VisibilityPublishing   VisibilityStatus = "publishing"
	VisibilityUnpublishing VisibilityStatus = "unpublishing"
)

// Transport identifies how clients connect to an agent server.
type Transport string

const (
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// ServerKind distinguishes in-app authored servers from external ones.
type ServerKind string

const (
	// ServerKindManaged servers have their tool configuration authored in
	// the console and encoded into the command field.
	ServerKindManaged ServerKind = "managed"
	// ServerKindRemote servers point at an externally hosted endpoint and
	// carry connection headers instead of an encoded command.
	ServerKindRemote ServerKind = "remote"
)

// ToolArg is a single typed argument of a tool.
type ToolArg struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Tool is one callable capability exposed by a managed server.
type Tool struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ToolArg `json:"args,omitempty"`
}

// SourceFile is a snapshot of an uploaded file attached to a managed server.
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ServerRecord is one managed or remote agent server configuration.
type ServerRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Kind             ServerKind        `json:"kind"`
	Command          string            `json:"command"`
	RunStatus        RunStatus         `json:"runStatus"`
	Transport        Transport         `json:"transport"`
	Endpoint         string            `json:"endpoint"`
	AgentsRunning    int               `json:"agentsRunning"`
	MaxAgents        int               `json:"maxAgents"`
	CreatedBy        string            `json:"createdBy"`
	LastModified     time.Time         `json:"lastModified"`
	IsPublic         bool              `json:"isPublic"`
	VisibilityStatus VisibilityStatus  `json:"visibilityStatus"`
	Tools            []Tool            `json:"tools,omitempty"`
	SourceFiles      []SourceFile      `json:"sourceFiles,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"`
}

// Clone returns a deep copy of the record so callers can mutate the result
// without aliasing the original's slices or headers.
func (r *ServerRecord) Clone() ServerRecord {
	out := *r
	if r.Tools != nil {
		out.Tools = make([]Tool, len(r.Tools))
		for i, tool := range r.Tools {
			out.Tools[i] = tool
			if tool.Args != nil {
				out.Tools[i].Args = append([]ToolArg(nil), tool.Args...)
			}
		}
	}
	if r.SourceFiles != nil {
		out.SourceFiles = append([]SourceFile(nil), r.SourceFiles...)
	}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

// VisibilityWord returns the search token matching the record's visibility.
func (r *ServerRecord) VisibilityWord() string {
	if r.IsPublic {
		return "public"
	}
	return "private"
}

// ToolDraft is the form-shape of a tool as authored in the creation/edit
// form. This is the structure serialized into the command string for managed
// servers; the rendered Tool is derived from it.
type ToolDraft struct {
	Name         string `json:"name"`
	IndexName    string `json:"indexName"`
	Backend      string `json:"backend"`
	EnableFilter bool   `json:"enableFilter"`
	EnableTopK   bool   `json:"enableTopK"`
	PythonCode   string `json:"pythonCode,omitempty"`
	RestEndpoint string `json:"restEndpoint,omitempty"`
}

// Supported retrieval backends for managed server tools.
const (
	BackendAzureAISearch = "Azure AI Search"
	BackendNeo4j         = "Neo4j"
)

// ServerDraft is the create/edit form payload for a server record.
type ServerDraft struct {
	Name        string            `json:"name"`
	Kind        ServerKind        `json:"kind"`
	Transport   Transport         `json:"transport"`
	Endpoint    string            `json:"endpoint"`
	MaxAgents   int               `json:"maxAgents"`
	Command     string            `json:"command,omitempty"`
	Tools       []ToolDraft       `json:"tools,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	SourceFiles []SourceFile      `json:"sourceFiles,omitempty"`
}
