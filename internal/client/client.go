// Package client is the HTTP client used by the CLI and the console TUI to
// talk to the fleet console API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	v0 "github.com/agentfleet/fleetconsole/internal/console/api/handlers/v0"
	"github.com/agentfleet/fleetconsole/internal/console/service"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

const defaultBaseURL = "http://localhost:8080/admin/v0"

// Client is a lightweight API client for the console service
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClientFromEnv constructs a client using environment variables
func NewClientFromEnv() (*Client, error) {
	base := os.Getenv("FLEETCTL_API_BASE_URL")
	if strings.TrimSpace(base) == "" {
		base = defaultBaseURL
	}
	c := NewClient(base)
	// Verify connectivity
	if err := c.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach API at %s: %w", base, err)
	}
	return c, nil
}

// NewClient constructs a client with an explicit base URL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StatusError is returned for non-2xx responses so callers can branch on
// the status code instead of parsing the error string.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s, %s", e.Status, e.Body)
}

func (c *Client) newRequest(method, pathWithQuery string, body io.Reader) (*http.Request, error) {
	fullURL := strings.TrimRight(c.BaseURL, "/") + pathWithQuery
	req, err := http.NewRequest(method, fullURL, body)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// read up to 1KB of body for error message
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(errBody)}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

func (c *Client) doJSONRequest(method, pathWithQuery string, in, out any) error {
	var body io.Reader
	if in != nil {
		inBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %T: %w", in, err)
		}
		body = bytes.NewReader(inBytes)
	}
	req, err := c.newRequest(method, pathWithQuery, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}

// Ping checks connectivity to the API
func (c *Client) Ping() error {
	req, err := c.newRequest(http.MethodGet, "/ping", nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, nil)
}

// Version returns build and version details of the API server
func (c *Client) Version() (*v0.VersionBody, error) {
	req, err := c.newRequest(http.MethodGet, "/version", nil)
	if err != nil {
		return nil, err
	}
	var out v0.VersionBody
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListServers returns one page of server records for the filter state
func (c *Client) ListServers(status, search string, page int) (*v0.ServerListBody, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if search != "" {
		q.Set("search", search)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	path := "/servers"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out v0.ServerListBody
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServer returns a single server record
func (c *Client) GetServer(id string) (*models.ServerRecord, error) {
	req, err := c.newRequest(http.MethodGet, "/servers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var out models.ServerRecord
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEditForm returns the record with its command decoded into tool drafts
func (c *Client) GetEditForm(id string) (*service.EditForm, error) {
	req, err := c.newRequest(http.MethodGet, "/servers/"+url.PathEscape(id)+"/form", nil)
	if err != nil {
		return nil, err
	}
	var out service.EditForm
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateServer creates a new server record from the draft
func (c *Client) CreateServer(draft *models.ServerDraft) (*models.ServerRecord, error) {
	var out models.ServerRecord
	if err := c.doJSONRequest(http.MethodPost, "/servers", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateServer merges the draft into an existing record
func (c *Client) UpdateServer(id string, draft *models.ServerDraft) (*models.ServerRecord, error) {
	var out models.ServerRecord
	if err := c.doJSONRequest(http.MethodPut, "/servers/"+url.PathEscape(id), draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteServer removes a record. confirm must be true unless a
// skip-confirmation window is active on the server side.
func (c *Client) DeleteServer(id string, confirm bool) error {
	path := "/servers/" + url.PathEscape(id)
	if confirm {
		path += "?confirm=true"
	}
	return c.doJSONRequest(http.MethodDelete, path, nil, nil)
}

// ToggleRunStatus starts an offline server or stops an online one
func (c *Client) ToggleRunStatus(id string) (*models.ServerRecord, error) {
	var out models.ServerRecord
	if err := c.doJSONRequest(http.MethodPost, "/servers/"+url.PathEscape(id)+"/status/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleVisibility publishes a private server or unpublishes a public one
func (c *Client) ToggleVisibility(id string) (*models.ServerRecord, error) {
	var out models.ServerRecord
	if err := c.doJSONRequest(http.MethodPost, "/servers/"+url.PathEscape(id)+"/visibility/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SkipConfirmation opens a skip-confirmation window on the server
func (c *Client) SkipConfirmation(hours int) error {
	body := struct {
		Hours int `json:"hours"`
	}{Hours: hours}
	return c.doJSONRequest(http.MethodPost, "/confirmation/skip", body, nil)
}
