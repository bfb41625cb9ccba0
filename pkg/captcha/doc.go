// Package captcha verifies CAPTCHA response tokens against a remote
// siteverify endpoint (Google reCAPTCHA or hCaptcha).
//
// Verification is opt-in: with no secret configured the verifier passes
// everything (fail-open by operator choice, not oversight). Once a
// secret is configured a missing token, a transport failure, or an
// unparseable response all fail closed.
package captcha
