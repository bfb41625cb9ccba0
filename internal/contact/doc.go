// Package contact implements the inbound contact-form submission
// pipeline: method gating, per-address admission control, CAPTCHA
// verification, input sanitization and validation, and a single
// notification dispatch through the mail relay.
//
// Each stage can short-circuit the pipeline with a terminal JSON
// response; a submission is either fully accepted-and-dispatched or
// fully rejected. Nothing is persisted.
package contact
