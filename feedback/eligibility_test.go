package feedback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/feedbackkit/flagstore"
	"github.com/ignite/feedbackkit/installdate"
)

type failingStore struct{ err error }

func (f failingStore) GetBool(context.Context, string) (bool, error) { return false, f.err }
func (f failingStore) SetBool(context.Context, string, bool) error   { return f.err }

// eligibleEngine wires an engine whose install age satisfies the default
// 3-day threshold, with a fresh store.
func eligibleEngine(t *testing.T, opts Options) (*Engine, FlagStore) {
	t.Helper()
	if opts.Endpoint == "" {
		opts.Endpoint = "https://feedback.example.com/v1/feedback"
	}
	if opts.FlagStore == nil {
		opts.FlagStore = flagstore.NewMemory()
	}
	cfg, err := NewConfig(opts)
	require.NoError(t, err)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	e := NewEngine(cfg, installdate.Static{At: now.Add(-10 * 24 * time.Hour)})
	e.now = func() time.Time { return now }
	return e, opts.FlagStore
}

func TestShouldPromptMissingAppStoreID(t *testing.T) {
	// No AppStoreID means no review deep-link, so never prompt, whatever
	// the flag state or install age says.
	store := flagstore.NewMemory()
	e, _ := eligibleEngine(t, Options{FlagStore: store})

	assert.False(t, e.ShouldPrompt(context.Background()))

	// Still false with the flag forced either way.
	require.NoError(t, store.SetBool(context.Background(), DefaultFlagKey, true))
	assert.False(t, e.ShouldPrompt(context.Background()))
}

func TestShouldPromptOneShot(t *testing.T) {
	e, store := eligibleEngine(t, Options{AppStoreID: "1234567890"})
	ctx := context.Background()

	assert.True(t, e.ShouldPrompt(ctx))

	// The decision consumed the opportunity: the flag is set and later
	// calls stay false even though the install age still qualifies.
	asked, err := store.GetBool(ctx, DefaultFlagKey)
	require.NoError(t, err)
	assert.True(t, asked)
	assert.False(t, e.ShouldPrompt(ctx))
}

func TestShouldPromptDelayBoundary(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		installAge time.Duration
		want       bool
	}{
		{"exactly three days", 3 * 24 * time.Hour, true},
		{"two days twenty-three hours", 2*24*time.Hour + 23*time.Hour, false},
		{"well past threshold", 30 * 24 * time.Hour, true},
		{"installed today", 2 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(Options{
				Endpoint:   "https://feedback.example.com/v1/feedback",
				AppStoreID: "1234567890",
				FlagStore:  flagstore.NewMemory(),
			})
			require.NoError(t, err)

			e := NewEngine(cfg, installdate.Static{At: now.Add(-tt.installAge)})
			e.now = func() time.Time { return now }

			assert.Equal(t, tt.want, e.ShouldPrompt(context.Background()))
		})
	}
}

func TestShouldPromptInstallAgeUnavailable(t *testing.T) {
	store := flagstore.NewMemory()
	cfg, err := NewConfig(Options{
		Endpoint:   "https://feedback.example.com/v1/feedback",
		AppStoreID: "1234567890",
		FlagStore:  store,
	})
	require.NoError(t, err)

	e := NewEngine(cfg, installdate.Unavailable{})
	ctx := context.Background()

	assert.False(t, e.ShouldPrompt(ctx))

	// No flag write on an indeterminate age: a later call with a known
	// age must still be able to prompt.
	asked, err := store.GetBool(ctx, DefaultFlagKey)
	require.NoError(t, err)
	assert.False(t, asked)
}

func TestShouldPromptBelowThresholdLeavesFlagUnset(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := flagstore.NewMemory()
	cfg, err := NewConfig(Options{
		Endpoint:   "https://feedback.example.com/v1/feedback",
		AppStoreID: "1234567890",
		FlagStore:  store,
	})
	require.NoError(t, err)

	e := NewEngine(cfg, installdate.Static{At: now.Add(-24 * time.Hour)})
	e.now = func() time.Time { return now }
	ctx := context.Background()

	assert.False(t, e.ShouldPrompt(ctx))

	asked, err := store.GetBool(ctx, DefaultFlagKey)
	require.NoError(t, err)
	assert.False(t, asked, "a negative decision must not consume the opportunity")

	// Four days later the same engine prompts.
	e.now = func() time.Time { return now.Add(4 * 24 * time.Hour) }
	assert.True(t, e.ShouldPrompt(ctx))
}

func TestShouldPromptNilConfigOrSource(t *testing.T) {
	assert.False(t, NewEngine(nil, installdate.Unavailable{}).ShouldPrompt(context.Background()))

	cfg, err := NewConfig(Options{
		Endpoint:   "https://feedback.example.com/v1/feedback",
		AppStoreID: "1234567890",
	})
	require.NoError(t, err)
	assert.False(t, NewEngine(cfg, nil).ShouldPrompt(context.Background()))
}

func TestShouldPromptStoreReadFailure(t *testing.T) {
	cfg, err := NewConfig(Options{
		Endpoint:   "https://feedback.example.com/v1/feedback",
		AppStoreID: "1234567890",
		FlagStore:  failingStore{err: errors.New("redis: connection refused")},
	})
	require.NoError(t, err)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	e := NewEngine(cfg, installdate.Static{At: now.Add(-10 * 24 * time.Hour)})
	e.now = func() time.Time { return now }

	assert.False(t, e.ShouldPrompt(context.Background()))
}

func TestShouldPromptConcurrentCallsYieldOneTrue(t *testing.T) {
	e, _ := eligibleEngine(t, Options{AppStoreID: "1234567890"})

	const callers = 16
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.ShouldPrompt(context.Background())
		}()
	}
	wg.Wait()
	close(results)

	trues := 0
	for r := range results {
		if r {
			trues++
		}
	}
	assert.Equal(t, 1, trues, "the in-engine mutex must serialize the read-then-write")
}

func TestWholeDays(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, wholeDays(base, base))
	assert.Equal(t, 0, wholeDays(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, wholeDays(base, base.Add(24*time.Hour)))
	assert.Equal(t, 2, wholeDays(base, base.Add(71*time.Hour)))
	assert.Equal(t, 3, wholeDays(base, base.Add(72*time.Hour)))
	assert.Equal(t, 0, wholeDays(base, base.Add(-48*time.Hour)), "future install dates clamp to zero")
}
