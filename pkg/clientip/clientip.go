// Package clientip extracts the originating client address from an
// inbound request served behind a trusted reverse proxy.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerForwardedFor is set by the first trusted proxy hop; its first
// comma-separated token is the original caller.
const headerForwardedFor = "X-Forwarded-For"

// FromRequest returns the caller's address, preferring the forwarded-for
// header and falling back to the raw connection address. The connection
// port, when present, is stripped so the value is a stable rate-limit key.
func FromRequest(r *http.Request) string {
	if fwd := r.Header.Get(headerForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
