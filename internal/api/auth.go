package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/kalambet/skinrec/internal/metrics"
)

const authRealm = `Bearer realm="skinrec"`

// RequireToken rejects requests whose Authorization header does not carry
// token as a bearer credential. The scheme name is case-insensitive.
func RequireToken(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearerToken(r.Header.Get("Authorization"))
			switch {
			case !ok:
				metrics.AuthFailures.WithLabelValues("missing_token").Inc()
				w.Header().Set("WWW-Authenticate", authRealm)
				httpError(w, http.StatusUnauthorized, "authentication_error", "missing bearer token")
			case subtle.ConstantTimeCompare([]byte(got), want) != 1:
				metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
				w.Header().Set("WWW-Authenticate", authRealm+`, error="invalid_token"`)
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid bearer token")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, cred, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	cred = strings.TrimSpace(cred)
	return cred, cred != ""
}
