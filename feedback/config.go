package feedback

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignite/feedbackkit/flagstore"
)

// DefaultFlagKey is the flag-store key used to remember that this
// installation has already been asked for feedback.
const DefaultFlagKey = "HAS_REQUESTED_FEEDBACK"

// DefaultPromptDelayDays is how many whole days after install the engine
// waits before allowing a feedback prompt.
const DefaultPromptDelayDays = 3

// Doer executes a single HTTP request. *http.Client satisfies this
// interface; tests inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FlagStore persists the "already asked" flag for an installation.
// GetBool returns false for keys that were never set.
//
// Implementations are not required to provide compare-and-swap semantics;
// the Engine serializes its own read-then-write in process, but concurrent
// processes sharing one store may each consume the prompt opportunity.
type FlagStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Shared defaults, used when Options leaves the corresponding field nil.
var (
	sharedHTTPClient = &http.Client{Timeout: 30 * time.Second}
	sharedFlagStore  = flagstore.NewMemory()
)

// Options configures a Config. Endpoint is required; every other field has
// a working default.
type Options struct {
	// Endpoint is the absolute URL feedback records are POSTed to. Required.
	Endpoint string

	// HTTPClient performs the submission exchange. Defaults to a shared
	// client with a 30s timeout. Timeout policy belongs entirely to this
	// client; the pipeline imposes none of its own.
	HTTPClient Doer

	// FlagStore persists the "already asked" flag. Defaults to a shared
	// in-process store.
	FlagStore FlagStore

	// FlagKey overrides the flag-store key. Defaults to DefaultFlagKey.
	FlagKey string

	// FallbackSupportEmail is an optional contact address hosts can show
	// the user when submission fails.
	FallbackSupportEmail string

	// AppName is uploaded with each feedback record when set.
	AppName string

	// AppStoreID is the app's App Store ID (digits, optionally prefixed
	// with "id"). Without it no review deep-link can be built and the
	// engine never prompts.
	AppStoreID string

	// PromptDelayDays is the minimum whole-day install age before
	// prompting. Nil means DefaultPromptDelayDays; negative values are
	// rejected with ErrInvalidDelay.
	PromptDelayDays *int
}

// Config holds the immutable runtime settings shared by the Engine and the
// Pipeline. Construct it once with NewConfig; it is safe for concurrent
// reads and is never mutated afterwards.
type Config struct {
	endpoint     *url.URL
	httpClient   Doer
	store        FlagStore
	flagKey      string
	supportEmail string
	appName      string
	appStoreID   string
	delayDays    int
}

// NewConfig validates opts and builds an immutable Config. It performs no
// network or storage I/O.
func NewConfig(opts Options) (*Config, error) {
	u, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, opts.Endpoint)
	}

	delay := DefaultPromptDelayDays
	if opts.PromptDelayDays != nil {
		if *opts.PromptDelayDays < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidDelay, *opts.PromptDelayDays)
		}
		delay = *opts.PromptDelayDays
	}

	cfg := &Config{
		endpoint:     u,
		httpClient:   opts.HTTPClient,
		store:        opts.FlagStore,
		flagKey:      opts.FlagKey,
		supportEmail: opts.FallbackSupportEmail,
		appName:      opts.AppName,
		appStoreID:   opts.AppStoreID,
		delayDays:    delay,
	}
	if cfg.httpClient == nil {
		cfg.httpClient = sharedHTTPClient
	}
	if cfg.store == nil {
		cfg.store = sharedFlagStore
	}
	if cfg.flagKey == "" {
		cfg.flagKey = DefaultFlagKey
	}
	return cfg, nil
}

// FallbackSupportEmail returns the configured support contact, or "" when
// none was provided.
func (c *Config) FallbackSupportEmail() string {
	if c == nil {
		return ""
	}
	return c.supportEmail
}

// AppName returns the configured application name, or "".
func (c *Config) AppName() string {
	if c == nil {
		return ""
	}
	return c.appName
}

// PromptDelayDays returns the configured install-age threshold in days.
func (c *Config) PromptDelayDays() int {
	if c == nil {
		return DefaultPromptDelayDays
	}
	return c.delayDays
}

// ReviewURL builds the App Store write-review deep link for the configured
// app, tolerating an AppStoreID already carrying the "id" prefix. It
// returns nil when no AppStoreID was configured.
func (c *Config) ReviewURL() *url.URL {
	if c == nil || c.appStoreID == "" {
		return nil
	}
	id := c.appStoreID
	if !strings.HasPrefix(id, "id") {
		id = "id" + id
	}
	u, err := url.Parse(fmt.Sprintf("https://apps.apple.com/app/%s?action=write-review", id))
	if err != nil {
		return nil
	}
	return u
}
