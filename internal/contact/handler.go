package contact

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mediflow/contact-api/pkg/captcha"
	"github.com/mediflow/contact-api/pkg/clientip"
	"github.com/mediflow/contact-api/pkg/ratelimit"
)

// maxBodyBytes bounds the inbound JSON body; the largest legitimate
// submission is well under this.
const maxBodyBytes = 64 << 10

// Handler runs the submission pipeline for POST /api/send.
type Handler struct {
	limiter    ratelimit.Store
	verifier   *captcha.Verifier
	dispatcher *Dispatcher
	validate   *validator.Validate
	log        *slog.Logger
	now        func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler creates the submission pipeline handler.
func NewHandler(limiter ratelimit.Store, verifier *captcha.Verifier, dispatcher *Dispatcher, opts ...HandlerOption) *Handler {
	h := &Handler{
		limiter:    limiter,
		verifier:   verifier,
		dispatcher: dispatcher,
		validate:   validator.New(),
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes declares the handler's routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/send", h.Submit)
}

// MethodNotAllowedHandler responds with the pipeline's JSON error shape
// for non-POST methods. Register it on the router.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// NotFoundHandler responds with the pipeline's JSON error shape for
// unknown paths.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// response is the terminal JSON body for every pipeline outcome.
type response struct {
	Error string `json:"error,omitempty"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
}

// Submit runs the five pipeline stages in order. Each stage fails
// terminally; there is no partial success.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	submissionID := uuid.NewString()
	addr := clientip.FromRequest(r)

	log := h.log.With(
		slog.String("submission_id", submissionID),
		slog.String("client_ip", addr),
	)

	allowed, err := h.limiter.Admit(ctx, addr, h.now())
	if err != nil {
		// A limiter outage must not take the form down: fail open.
		log.WarnContext(ctx, "admission store unavailable, failing open",
			slog.String("error", err.Error()))
		allowed = true
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	var sub Submission
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.verifier.Verify(ctx, sub.CaptchaToken) {
		writeError(w, http.StatusBadRequest, "CAPTCHA verification failed")
		return
	}

	clean := sub.Sanitize()
	if err := h.validate.Struct(clean); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := h.dispatcher.Dispatch(ctx, clean)
	switch {
	case errors.Is(err, ErrNotConfigured):
		log.ErrorContext(ctx, "dispatch refused: no destination recipient configured")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	case err != nil:
		// Relay detail stays in the dispatcher's log; callers get a
		// generic failure.
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	log.InfoContext(ctx, "contact notification dispatched",
		slog.String("message_id", id))
	writeJSON(w, http.StatusOK, response{OK: true, ID: id})
}

// validationMessage maps validator failures onto stable, user-facing
// reasons. Missing fields win over length, length over format.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid submission"
	}

	for _, tag := range []string{"required", "max", "email"} {
		for _, fe := range verrs {
			if fe.Tag() != tag {
				continue
			}
			switch tag {
			case "required":
				return "Missing required fields"
			case "max":
				return "Input too long"
			case "email":
				return "Invalid email format"
			}
		}
	}
	return "Invalid submission"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{OK: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
