package middleware

import (
	"context"
	"net/http"

	"github.com/noobkia1314/SmartMind/internal/models"
	"github.com/noobkia1314/SmartMind/internal/services"
)

type contextKey string

const ProfileContextKey contextKey = "profile"

// RequireSession admits any established session, guest or Google. Requests
// without a valid session cookie get 401 rather than a redirect; this surface
// is a JSON API, not a rendered site.
func RequireSession(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := authService.GetSession(r)
			if err != nil || !profile.IsLoggedIn() {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ProfileContextKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetProfile(ctx context.Context) models.UserProfile {
	profile, _ := ctx.Value(ProfileContextKey).(models.UserProfile)
	return profile
}
