// Package installdate provides InstallDateSource implementations for the
// feedback SDK. The canonical source of truth is the host platform's
// purchase or transaction history; hosts without one can fall back to the
// file-backed FirstRun source, which records the first instant this
// installation was seen.
package installdate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ignite/feedbackkit/internal/pkg/logger"
)

// Static reports a fixed install date. Useful for tests and for hosts that
// already know their install date from a purchase record.
type Static struct {
	At time.Time
}

// OriginalInstallDate returns the fixed date; the zero time reports
// unavailable.
func (s Static) OriginalInstallDate(context.Context) (time.Time, bool) {
	if s.At.IsZero() {
		return time.Time{}, false
	}
	return s.At, true
}

// Unavailable is a source with no install record. Engines wired with it
// never prompt.
type Unavailable struct{}

// OriginalInstallDate always reports unavailable.
func (Unavailable) OriginalInstallDate(context.Context) (time.Time, bool) {
	return time.Time{}, false
}

type firstRunState struct {
	InstalledAt time.Time `json:"installed_at"`
}

// FirstRun records the first instant this installation was observed in a
// small JSON state file and reports it as the install date from then on.
// A corrupt or unreadable state file surfaces as unavailable rather than
// being overwritten; losing the original date must never re-arm the
// prompt.
type FirstRun struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewFirstRun creates a first-run source persisting to the given file
// path. Parent directories are created on first write.
func NewFirstRun(path string) *FirstRun {
	return &FirstRun{path: path, now: time.Now}
}

// OriginalInstallDate returns the recorded first-run instant, recording
// "now" when no state file exists yet.
func (f *FirstRun) OriginalInstallDate(context.Context) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err == nil {
		var state firstRunState
		if jsonErr := json.Unmarshal(data, &state); jsonErr != nil || state.InstalledAt.IsZero() {
			logger.Warn("first-run state file unreadable", "path", f.path, "error", jsonErr)
			return time.Time{}, false
		}
		return state.InstalledAt, true
	}
	if !os.IsNotExist(err) {
		logger.Warn("first-run state file unreadable", "path", f.path, "error", err)
		return time.Time{}, false
	}

	at := f.now().UTC()
	if err := f.write(firstRunState{InstalledAt: at}); err != nil {
		logger.Warn("first-run state write failed", "path", f.path, "error", err)
		return time.Time{}, false
	}
	return at, true
}

func (f *FirstRun) write(state firstRunState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0644)
}
