package feedback

import "time"

// Type classifies a feedback record.
type Type string

// Feedback type constants, matching the collector's wire vocabulary.
const (
	TypeFeatureRequest  Type = "feature_request"
	TypeGeneralFeedback Type = "general_feedback"
	TypeIssue           Type = "issue"
)

// Valid reports whether t is one of the known feedback types.
func (t Type) Valid() bool {
	switch t {
	case TypeFeatureRequest, TypeGeneralFeedback, TypeIssue:
		return true
	}
	return false
}

// Record is one user-submitted feedback item, assembled immediately before
// submission and discarded afterwards. Optional fields are pointers so an
// absent value serializes as an explicit JSON null, distinguishing "not
// provided" from "provided empty". Field names follow the collector wire
// format; none use omitempty on purpose.
type Record struct {
	Message          string    `json:"feedback"`
	ReplyEmail       *string   `json:"reply_email"`
	UserID           *string   `json:"user_id"`
	AppName          *string   `json:"app_name"`
	AppVersion       *string   `json:"app_version"`
	OSVersion        string    `json:"os_version"`
	Timestamp        time.Time `json:"timestamp"`
	Locale           string    `json:"locale"`
	IsUserSubscribed *bool     `json:"is_user_subscribed"`
	Type             *Type     `json:"feedback_type"`
}

// Input carries the user-provided portion of a feedback record. Message
// must be non-empty; enforcing that is the caller's (the UI's) job, not
// NewRecord's. Nil optional fields stay null on the wire.
type Input struct {
	Message          string
	ReplyEmail       *string
	UserID           *string
	IsUserSubscribed *bool
	Type             Type
}

// NewRecord assembles a Record from user input, the configured app
// identity and the host environment. It is a pure data transformation with
// no I/O and no failure modes; the timestamp is env.Now() in UTC.
func NewRecord(cfg *Config, env Environment, in Input) *Record {
	rec := &Record{
		Message:          in.Message,
		ReplyEmail:       in.ReplyEmail,
		UserID:           in.UserID,
		OSVersion:        env.OSVersion(),
		Timestamp:        env.Now().UTC(),
		Locale:           env.Locale(),
		IsUserSubscribed: in.IsUserSubscribed,
	}
	if name := cfg.AppName(); name != "" {
		rec.AppName = &name
	}
	if v, ok := env.AppVersion(); ok {
		rec.AppVersion = &v
	}
	if in.Type != "" {
		t := in.Type
		rec.Type = &t
	}
	return rec
}
