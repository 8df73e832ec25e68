package store_test

import (
	"testing"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id, name string) models.ServerRecord {
	return models.ServerRecord{
		ID:               id,
		Name:             name,
		Kind:             models.ServerKindRemote,
		RunStatus:        models.RunStatusOffline,
		VisibilityStatus: models.VisibilityIdle,
		Transport:        models.TransportSSE,
		MaxAgents:        10,
	}
}

func TestInsertAndGet(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "alpha")))

	got, err := st.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
	assert.False(t, got.LastModified.IsZero())

	_, err = st.Get("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertDuplicate(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "alpha")))
	assert.ErrorIs(t, st.Insert(newRecord("a", "other")), store.ErrAlreadyExists)
	assert.Equal(t, 1, st.Len())
}

func TestListNewestFirst(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "first")))
	require.NoError(t, st.Insert(newRecord("b", "second")))
	require.NoError(t, st.Insert(newRecord("c", "third")))

	names := make([]string, 0, 3)
	for _, record := range st.List() {
		names = append(names, record.Name)
	}
	assert.Equal(t, []string{"third", "second", "first"}, names)
}

func TestUpdateRefreshesLastModified(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := store.New(store.WithClock(func() time.Time { return current }))

	require.NoError(t, st.Insert(newRecord("a", "alpha")))

	current = current.Add(time.Minute)
	name := "renamed"
	updated, err := st.Update("a", store.Patch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, current, updated.LastModified)

	_, err = st.Update("missing", store.Patch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateLeavesUnsetFieldsAlone(t *testing.T) {
	st := store.New()

	record := newRecord("a", "alpha")
	record.Endpoint = "http://localhost:9000"
	require.NoError(t, st.Insert(record))

	status := models.RunStatusStarting
	updated, err := st.Update("a", store.Patch{RunStatus: &status})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusStarting, updated.RunStatus)
	assert.Equal(t, "alpha", updated.Name)
	assert.Equal(t, "http://localhost:9000", updated.Endpoint)
}

func TestApplyDoesNotRefreshLastModified(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := store.New(store.WithClock(func() time.Time { return current }))

	require.NoError(t, st.Insert(newRecord("a", "alpha")))
	inserted, err := st.Get("a")
	require.NoError(t, err)

	current = current.Add(time.Hour)
	applied, err := st.Apply("a", func(record *models.ServerRecord) {
		record.RunStatus = models.RunStatusOnline
	})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusOnline, applied.RunStatus)
	assert.Equal(t, inserted.LastModified, applied.LastModified)
}

func TestRemove(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "alpha")))
	require.NoError(t, st.Insert(newRecord("b", "beta")))

	require.NoError(t, st.Remove("a"))
	assert.Equal(t, 1, st.Len())
	assert.Len(t, st.List(), 1)

	assert.ErrorIs(t, st.Remove("a"), store.ErrNotFound)
}

func TestCopiesOnTheWayOut(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "alpha")))

	list := st.List()
	list[0].Name = "mutated"

	got, err := st.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
}

func TestCopiesDetachNestedFields(t *testing.T) {
	st := store.New()

	record := newRecord("a", "alpha")
	record.Tools = []models.Tool{{
		Name:        "Search_Orders",
		Description: "original",
		Args:        []models.ToolArg{{Name: "filter", Type: "string"}},
	}}
	record.SourceFiles = []models.SourceFile{{Path: "server.py", Content: "pass"}}
	record.Headers = map[string]string{"Authorization": "Bearer token"}
	require.NoError(t, st.Insert(record))

	// Mutating the record handed to Insert must not reach the store.
	record.Tools[0].Description = "mutated"
	record.Headers["Authorization"] = "mutated"

	got, err := st.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Tools[0].Description)
	assert.Equal(t, "Bearer token", got.Headers["Authorization"])

	// Mutating what Get and List returned must not reach the store either.
	got.Tools[0].Args[0].Name = "mutated"
	got.SourceFiles[0].Path = "mutated.py"
	got.Headers["Authorization"] = "mutated"
	list := st.List()
	list[0].Tools[0].Name = "mutated"

	again, err := st.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Search_Orders", again.Tools[0].Name)
	assert.Equal(t, "filter", again.Tools[0].Args[0].Name)
	assert.Equal(t, "server.py", again.SourceFiles[0].Path)
	assert.Equal(t, "Bearer token", again.Headers["Authorization"])
}

func TestUpdateDetachesPatchSlices(t *testing.T) {
	st := store.New()

	require.NoError(t, st.Insert(newRecord("a", "alpha")))

	tools := []models.Tool{{Name: "Search_Orders", Description: "original"}}
	_, err := st.Update("a", store.Patch{Tools: &tools})
	require.NoError(t, err)

	tools[0].Description = "mutated"

	got, err := st.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Tools[0].Description)
}
