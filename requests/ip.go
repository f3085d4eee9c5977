package requests

import (
	"net"
	"net/http"
	"strings"
)

// RemoteIP is the host part of r.RemoteAddr, the peer of the TCP connection
func RemoteIP(r *http.Request) string {
	hostIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return hostIP
}

// GetClientIP returns the client address reported by a reverse proxy.
// The headers are set by the client unless a proxy overwrites them,
// so use it only when every request arrives through one.
func GetClientIP(r *http.Request) string {
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		first, _, _ := strings.Cut(xForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		return xRealIP
	}
	return RemoteIP(r)
}
