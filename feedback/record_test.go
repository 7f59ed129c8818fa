package feedback

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	appVersion string
	hasVersion bool
	osVersion  string
	locale     string
	now        time.Time
}

func (f fakeEnv) AppVersion() (string, bool) { return f.appVersion, f.hasVersion }
func (f fakeEnv) OSVersion() string          { return f.osVersion }
func (f fakeEnv) Locale() string             { return f.locale }
func (f fakeEnv) Now() time.Time             { return f.now }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var testEnv = fakeEnv{
	appVersion: "2.4.0",
	hasVersion: true,
	osVersion:  "linux/amd64 (go1.24)",
	locale:     "en_US",
	now:        time.Date(2026, 8, 29, 15, 4, 5, 0, time.FixedZone("CEST", 2*3600)),
}

func TestNewRecordAllFields(t *testing.T) {
	cfg, err := NewConfig(Options{
		Endpoint: "https://feedback.example.com/v1/feedback",
		AppName:  "Example",
	})
	require.NoError(t, err)

	rec := NewRecord(cfg, testEnv, Input{
		Message:          "the export button is hidden on small screens",
		ReplyEmail:       strPtr("jane@example.com"),
		UserID:           strPtr("user-42"),
		IsUserSubscribed: boolPtr(true),
		Type:             TypeIssue,
	})

	assert.Equal(t, "the export button is hidden on small screens", rec.Message)
	require.NotNil(t, rec.ReplyEmail)
	assert.Equal(t, "jane@example.com", *rec.ReplyEmail)
	require.NotNil(t, rec.AppName)
	assert.Equal(t, "Example", *rec.AppName)
	require.NotNil(t, rec.AppVersion)
	assert.Equal(t, "2.4.0", *rec.AppVersion)
	assert.Equal(t, "linux/amd64 (go1.24)", rec.OSVersion)
	assert.Equal(t, "en_US", rec.Locale)
	require.NotNil(t, rec.Type)
	assert.Equal(t, TypeIssue, *rec.Type)

	// Timestamp is normalized to UTC at build time.
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.True(t, rec.Timestamp.Equal(testEnv.now))
}

func TestNewRecordOptionalFieldsStayNull(t *testing.T) {
	cfg, err := NewConfig(Options{Endpoint: "https://feedback.example.com/v1/feedback"})
	require.NoError(t, err)

	env := testEnv
	env.hasVersion = false

	rec := NewRecord(cfg, env, Input{Message: "love the app"})

	assert.Nil(t, rec.ReplyEmail)
	assert.Nil(t, rec.UserID)
	assert.Nil(t, rec.AppName)
	assert.Nil(t, rec.AppVersion)
	assert.Nil(t, rec.IsUserSubscribed)
	assert.Nil(t, rec.Type)
}

// Absent optionals must serialize as explicit nulls, not omitted keys, so
// the collector can tell "not provided" from "provided empty".
func TestRecordWireFormatExplicitNulls(t *testing.T) {
	cfg, err := NewConfig(Options{Endpoint: "https://feedback.example.com/v1/feedback"})
	require.NoError(t, err)

	env := testEnv
	env.hasVersion = false
	rec := NewRecord(cfg, env, Input{Message: "love the app"})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &wire))

	for _, key := range []string{
		"feedback", "reply_email", "user_id", "app_name", "app_version",
		"os_version", "timestamp", "locale", "is_user_subscribed", "feedback_type",
	} {
		require.Contains(t, wire, key)
	}
	for _, key := range []string{"reply_email", "user_id", "app_name", "app_version", "is_user_subscribed", "feedback_type"} {
		assert.Equal(t, "null", string(wire[key]), "key %s", key)
	}

	// Timestamps go out as ISO-8601 / RFC 3339 in UTC.
	var ts string
	require.NoError(t, json.Unmarshal(wire["timestamp"], &ts))
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(testEnv.now))
}

func TestTypeValid(t *testing.T) {
	assert.True(t, TypeFeatureRequest.Valid())
	assert.True(t, TypeGeneralFeedback.Valid())
	assert.True(t, TypeIssue.Valid())
	assert.False(t, Type("rant").Valid())
	assert.False(t, Type("").Valid())
}

func TestSystemEnvironment(t *testing.T) {
	var env SystemEnvironment

	assert.NotEmpty(t, env.OSVersion())
	assert.NotEmpty(t, env.Locale())
	assert.WithinDuration(t, time.Now(), env.Now(), time.Second)
}
