package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards the /v1 API with a shared token. The widget normally
// runs open on localhost; operators exposing it beyond that set
// server.api_token and clients send "Authorization: Bearer <token>".
func BearerAuth(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				httpError(w, http.StatusUnauthorized, "authentication_error",
					"missing or invalid API token (set CAMPUSBOT_API_TOKEN to match the server)")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
