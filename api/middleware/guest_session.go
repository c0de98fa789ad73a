package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/pkg/logger"
)

const (
	guestSessionHeader = "X-Guest-Session"
	guestSessionCookie = "sf_guest_session"

	// guestCookieMaxAge matches the storage TTL of an untouched guest cart.
	guestCookieMaxAge = 30 * 24 * 60 * 60
)

// GuestSession resolves the device's guest session key from the header or
// cookie, minting and setting one when the request carries neither. Every
// request downstream sees a non-empty guest key.
func GuestSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(guestSessionHeader)
			if key == "" {
				if cookie, err := r.Cookie(guestSessionCookie); err == nil {
					key = cookie.Value
				}
			}
			if key == "" {
				key = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     guestSessionCookie,
					Value:    key,
					Path:     "/",
					MaxAge:   guestCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithGuestKey(r.Context(), key)
			if logg != nil {
				ctx = logg.WithSessionKey(ctx, key)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
