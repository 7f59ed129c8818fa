package collector

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/feedbackkit/feedback"
	"github.com/ignite/feedbackkit/internal/pkg/httputil"
	"github.com/ignite/feedbackkit/internal/pkg/logger"
)

// Notifier is told about each accepted submission. Implementations must
// not fail the intake; errors are theirs to log.
type Notifier interface {
	FeedbackReceived(entry *Entry)
}

// Handlers wires the collector's HTTP surface.
type Handlers struct {
	store    *Store
	notifier Notifier // nil when notifications are disabled
}

// NewHandlers creates the collector handler set.
func NewHandlers(store *Store, notifier Notifier) *Handlers {
	return &Handlers{store: store, notifier: notifier}
}

// Router builds the chi router with the standard middleware stack.
func (h *Handlers) Router(allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Cache-Control"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Post("/feedback", h.ReceiveFeedback)
	r.Route("/api", func(r chi.Router) {
		r.Get("/feedback", h.ListFeedback)
		r.Get("/feedback/stats", h.FeedbackStats)
	})
	return r
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "healthy", "service": "feedback-collector"})
}

// ReceiveFeedback accepts one feedback record in the SDK wire format.
// The SDK treats exactly 200 as delivered, so acceptance answers 200, not
// 201.
func (h *Handlers) ReceiveFeedback(w http.ResponseWriter, r *http.Request) {
	var rec feedback.Record
	if !httputil.Decode(w, r, &rec) {
		return
	}
	if rec.Message == "" {
		httputil.BadRequest(w, "feedback message must not be empty")
		return
	}
	if rec.Type != nil && !rec.Type.Valid() {
		httputil.BadRequest(w, "unknown feedback_type "+string(*rec.Type))
		return
	}

	entry := &Entry{
		Message:          rec.Message,
		ReplyEmail:       rec.ReplyEmail,
		UserID:           rec.UserID,
		AppName:          rec.AppName,
		AppVersion:       rec.AppVersion,
		OSVersion:        rec.OSVersion,
		Timestamp:        rec.Timestamp,
		Locale:           rec.Locale,
		IsUserSubscribed: rec.IsUserSubscribed,
	}
	if rec.Type != nil {
		t := string(*rec.Type)
		entry.Type = &t
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := h.store.Insert(r.Context(), entry); err != nil {
		httputil.InternalError(w, err)
		return
	}

	app := ""
	if rec.AppName != nil {
		app = *rec.AppName
	}
	logger.Info("feedback accepted", "id", entry.ID, "app", app)
	if h.notifier != nil {
		go h.notifier.FeedbackReceived(entry)
	}

	httputil.OK(w, map[string]string{"status": "accepted", "id": entry.ID})
}

// ListFeedback returns stored submissions newest-first.
func (h *Handlers) ListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, total, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httputil.OK(w, map[string]any{"total": total, "items": entries})
}

// FeedbackStats returns submission counts grouped by feedback type.
func (h *Handlers) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByType(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"by_type": counts})
}
