package client_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentfleet/fleetconsole/internal/client"
	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteServerStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Query().Get("confirm") == "true" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "confirmation required", http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	c := client.NewClient(srv.URL)

	err := c.DeleteServer("abc", false)
	require.Error(t, err)

	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusPreconditionFailed, statusErr.Code)
	assert.Contains(t, err.Error(), "unexpected status:")

	assert.NoError(t, c.DeleteServer("abc", true))
}

func TestCreateServerSendsContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// A body handed to http.NewRequest as a *bytes.Reader sets the
		// length up front instead of falling back to chunked encoding.
		assert.Greater(t, r.ContentLength, int64(0))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","name":"alpha"}`))
	}))
	defer srv.Close()

	c := client.NewClient(srv.URL)

	created, err := c.CreateServer(&models.ServerDraft{Name: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "abc", created.ID)
}

func TestGetServerNotFoundStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such record", http.StatusNotFound)
	}))
	defer srv.Close()

	c := client.NewClient(srv.URL)

	_, err := c.GetServer("missing")
	require.Error(t, err)

	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, statusErr.Body, "no such record")
}
