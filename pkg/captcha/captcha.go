package captcha

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	hcaptchaVerifyURL  = "https://hcaptcha.com/siteverify"

	// Bounded so a slow verification service cannot exhaust handler capacity.
	defaultTimeout = 3 * time.Second
)

// Config holds CAPTCHA provider secrets. When both are set, reCAPTCHA
// wins; when neither is set, verification is disabled.
type Config struct {
	RecaptchaSecret string `envconfig:"RECAPTCHA_SECRET"`
	HCaptchaSecret  string `envconfig:"HCAPTCHA_SECRET"`
}

// Verifier validates CAPTCHA tokens via a server-to-server siteverify call.
type Verifier struct {
	client    *http.Client
	log       *slog.Logger
	secret    string
	verifyURL string
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient overrides the HTTP client (and its timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		if c != nil {
			v.client = c
		}
	}
}

// WithVerifyURL overrides the siteverify endpoint. Used in tests.
func WithVerifyURL(u string) Option {
	return func(v *Verifier) {
		if u != "" {
			v.verifyURL = u
		}
	}
}

// WithLogger sets the logger for verification failures.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

// New creates a Verifier from config. The provider endpoint follows the
// configured secret: reCAPTCHA if RECAPTCHA_SECRET is set, otherwise
// hCaptcha if HCAPTCHA_SECRET is set.
func New(cfg Config, opts ...Option) *Verifier {
	v := &Verifier{
		client: &http.Client{Timeout: defaultTimeout},
		log:    slog.Default(),
	}

	switch {
	case cfg.RecaptchaSecret != "":
		v.secret = cfg.RecaptchaSecret
		v.verifyURL = recaptchaVerifyURL
	case cfg.HCaptchaSecret != "":
		v.secret = cfg.HCaptchaSecret
		v.verifyURL = hcaptchaVerifyURL
	}

	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled reports whether a verification secret is configured.
func (v *Verifier) Enabled() bool {
	return v.secret != ""
}

// siteverifyResponse is the subset of the provider response we care about.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether the given token passes CAPTCHA verification.
//
// With no secret configured it always returns true. With a secret
// configured, an empty token fails, and any transport or parse failure
// is logged and fails closed; there is no retry.
func (v *Verifier) Verify(ctx context.Context, token string) bool {
	if !v.Enabled() {
		return true
	}
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		v.log.ErrorContext(ctx, "captcha verification request build failed",
			slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.ErrorContext(ctx, "captcha verification call failed",
			slog.String("error", err.Error()))
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.log.ErrorContext(ctx, "captcha verification response unreadable",
			slog.String("error", err.Error()))
		return false
	}

	if !result.Success {
		v.log.InfoContext(ctx, "captcha verification rejected",
			slog.Any("error_codes", result.ErrorCodes))
	}
	return result.Success
}
