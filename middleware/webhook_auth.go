package middleware

import (
	"crypto/subtle"
	"net/http"
)

// secretTokenHeader is echoed back by Telegram on every webhook delivery
// when a secret token was set at registration.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// RequireWebhookSecret rejects webhook requests that do not carry the
// configured secret token, so only Telegram can reach the pipeline.
// An empty secret disables the check.
func RequireWebhookSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get(secretTokenHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
