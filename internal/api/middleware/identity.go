package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const ViewerContextKey contextKey = "viewer"

// CookieName carries the anonymous per-device identifier.
const CookieName = "user"

const cookieMaxAge = 180 * 24 * 60 * 60 // ~6 months

// Identity assigns every request an anonymous viewer id. An existing
// valid cookie is reused; anything else gets a fresh UUID issued on the
// response. There is no authentication beyond this opaque identifier.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var viewer uuid.UUID

		cookie, err := r.Cookie(CookieName)
		if err == nil {
			viewer, err = uuid.Parse(cookie.Value)
		}
		if err != nil || viewer == uuid.Nil {
			viewer = uuid.New()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    viewer.String(),
				Path:     "/",
				MaxAge:   cookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ViewerContextKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewerFromContext retrieves the anonymous viewer id from the request
// context.
func ViewerFromContext(ctx context.Context) (uuid.UUID, bool) {
	viewer, ok := ctx.Value(ViewerContextKey).(uuid.UUID)
	return viewer, ok
}
