package confirm_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/confirm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipDefaultsToFalse(t *testing.T) {
	p := confirm.NewPolicy(filepath.Join(t.TempDir(), "skip-confirm"))
	assert.False(t, p.Skip())
}

func TestSetSkipForOpensWindow(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "nested", "skip-confirm")
	p := confirm.NewPolicy(path, confirm.WithClock(func() time.Time { return current }))

	require.NoError(t, p.SetSkipFor(time.Hour))
	assert.True(t, p.Skip())

	until, ok := p.SkipUntil()
	require.True(t, ok)
	assert.Equal(t, current.Add(time.Hour), until)
}

func TestSkipExpires(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := confirm.NewPolicy(filepath.Join(t.TempDir(), "skip-confirm"), confirm.WithClock(func() time.Time { return current }))

	require.NoError(t, p.SetSkipFor(time.Hour))
	assert.True(t, p.Skip())

	current = current.Add(2 * time.Hour)
	assert.False(t, p.Skip())
}

func TestWindowSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip-confirm")

	first := confirm.NewPolicy(path)
	require.NoError(t, first.SetSkipFor(time.Hour))

	second := confirm.NewPolicy(path)
	assert.True(t, second.Skip())
}

func TestCorruptFileRequiresConfirmation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip-confirm")
	require.NoError(t, os.WriteFile(path, []byte("not a timestamp"), 0o644))

	p := confirm.NewPolicy(path)
	assert.False(t, p.Skip())
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip-confirm")
	p := confirm.NewPolicy(path)

	require.NoError(t, p.SetSkipFor(time.Hour))
	require.NoError(t, p.Clear())
	assert.False(t, p.Skip())

	// clearing an already-clear policy is fine
	require.NoError(t, p.Clear())
}

func TestEmptyPathDisablesPersistence(t *testing.T) {
	p := confirm.NewPolicy("")

	require.NoError(t, p.SetSkipFor(time.Hour))
	assert.False(t, p.Skip())
}
