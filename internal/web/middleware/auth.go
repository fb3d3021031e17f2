package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/JonMunkholm/pimpoyo/internal/config"
	"github.com/JonMunkholm/pimpoyo/internal/logging"
)

// authError is the body of a rejected request.
type authError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// APIKeyAuth guards routes with the configured API keys. The key is read from
// X-API-Key or an "Authorization: Bearer" header. With RequireAPIKey off every
// request passes; with it on and no keys configured every request fails.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := requestAPIKey(r)
			switch {
			case key == "":
				reject(w, r, http.StatusUnauthorized, authError{"missing API key", "AUTH_MISSING_KEY"})
			case !isValidAPIKey(key, cfg.APIKeys):
				reject(w, r, http.StatusForbidden, authError{"invalid API key", "AUTH_INVALID_KEY"})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func reject(w http.ResponseWriter, r *http.Request, status int, body authError) {
	logging.FromContext(r.Context()).Warn("auth: request rejected",
		"reason", body.Code,
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// isValidAPIKey compares against every key in constant time, so timing does
// not reveal which key (if any) matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, k := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return valid == 1
}
