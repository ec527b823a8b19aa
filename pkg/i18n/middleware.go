package i18n

import (
	"net/http"
)

// LocaleCookie lets a browser pin its locale regardless of Accept-Language.
const LocaleCookie = "bahasa"

// Middleware resolves the request locale and stores it in the context.
// A supported value in the locale cookie wins over Accept-Language; when
// neither yields a supported locale, fallback is used.
func Middleware(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := ""
			if c, err := r.Cookie(LocaleCookie); err == nil && IsSupported(c.Value) {
				locale = c.Value
			}
			if locale == "" {
				locale = ParseAcceptLanguage(r.Header.Get("Accept-Language"), fallback)
			}

			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), locale)))
		})
	}
}
