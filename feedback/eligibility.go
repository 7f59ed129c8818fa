package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/ignite/feedbackkit/internal/pkg/logger"
)

// InstallDateSource reports when this installation was first installed or
// purchased. Unverifiable or absent records surface as ok=false, never as
// a fabricated date.
type InstallDateSource interface {
	OriginalInstallDate(ctx context.Context) (at time.Time, ok bool)
}

// Engine decides whether the host may prompt for feedback right now.
//
// The decision is one-shot per installation: the first time it evaluates
// true, the "already asked" flag is persisted immediately, before any UI
// renders, so the opportunity is consumed even if the host never shows the
// prompt. The read-then-write on the flag store is serialized through an
// in-engine mutex, so concurrent ShouldPrompt calls on one Engine yield at
// most one true.
type Engine struct {
	cfg      *Config
	installs InstallDateSource

	now func() time.Time // stubbed in tests

	mu sync.Mutex
}

// NewEngine builds an eligibility engine over cfg and the given
// install-date source. A nil cfg or nil source yields an engine that never
// prompts.
func NewEngine(cfg *Config, installs InstallDateSource) *Engine {
	return &Engine{cfg: cfg, installs: installs, now: time.Now}
}

// ShouldPrompt reports whether the host may show a feedback prompt now.
//
// Every "no" here is normal control flow, not an error: unconfigured
// engine, missing app store ID, already asked, or install age unknown or
// below the threshold. Collaborator failures degrade to "no" with a log
// line; they never propagate.
func (e *Engine) ShouldPrompt(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg == nil {
		return false
	}
	cfg := e.cfg

	if cfg.appStoreID == "" {
		logger.Error("cannot prompt for feedback: no app store ID configured; set Options.AppStoreID")
		return false
	}

	asked, err := cfg.store.GetBool(ctx, cfg.flagKey)
	if err != nil {
		logger.Warn("feedback flag read failed, skipping prompt", "key", cfg.flagKey, "error", err)
		return false
	}
	if asked {
		return false
	}

	if e.installs == nil {
		return false
	}
	installedAt, ok := e.installs.OriginalInstallDate(ctx)
	if !ok {
		// Install age indeterminate: no prompt, and the flag stays
		// untouched so a later call can re-evaluate.
		return false
	}

	if wholeDays(installedAt, e.now()) < cfg.delayDays {
		return false
	}

	// Consume the opportunity on the decision itself, not on the eventual
	// user action. A failed write is logged and the prompt still allowed;
	// one-shot is best-effort when the store misbehaves.
	if err := cfg.store.SetBool(ctx, cfg.flagKey, true); err != nil {
		logger.Warn("feedback flag write failed", "key", cfg.flagKey, "error", err)
	}
	return true
}

// wholeDays counts complete 24-hour periods between from and to,
// fractional days rounding down. Negative spans count as zero.
func wholeDays(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
