package mw

import (
	"net/http"
	"slices"
	"strings"

	"github.com/linonon/aibookmarks/internal/logger"
)

// EnforceHost rejects requests whose Host header matches none of
// allowedHosts. Patterns may be exact ("localhost:7424") or a wildcard
// subdomain ("*.example.com"). An empty list or a "*" entry lets everything
// through.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 || slices.Contains(allowedHosts, "*") {
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("host check enabled", logger.Strings("allowed_hosts", allowedHosts))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, pattern := range allowedHosts {
				if matchHost(r.Host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("rejected request for unknown host",
				logger.String("host", r.Host),
				logger.String("remote_ip", r.RemoteAddr))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func matchHost(host, pattern string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix)
	}
	return false
}
