// Package confirm persists the "skip delete confirmation" window, the only
// state that outlives the console process.
package confirm

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Policy decides whether a delete needs an explicit confirmation step. The
// decision is backed by a single RFC3339 timestamp on disk: deletes before
// that instant skip confirmation. A missing or corrupt file degrades to
// "confirmation required".
type Policy struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Option configures a Policy.
type Option func(*Policy)

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) {
		p.now = now
	}
}

// NewPolicy creates a policy persisting to the given file path. An empty
// path disables persistence entirely: confirmation is always required.
func NewPolicy(path string, opts ...Option) *Policy {
	p := &Policy{
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Skip reports whether delete confirmation should currently be skipped.
func (p *Policy) Skip() bool {
	until, ok := p.SkipUntil()
	return ok && p.now().Before(until)
}

// SkipUntil returns the end of the current skip window, if one is set.
func (p *Policy) SkipUntil() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return time.Time{}, false
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return time.Time{}, false
	}
	until, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false
	}
	return until, true
}

// SetSkipFor opens a skip window of the given duration from now.
func (p *Policy) SetSkipFor(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	until := p.now().Add(d).Format(time.RFC3339)
	return os.WriteFile(p.path, []byte(until+"\n"), 0o644)
}

// Clear removes the skip window.
func (p *Policy) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return nil
	}
	err := os.Remove(p.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
