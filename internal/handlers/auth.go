package handlers

import (
	"log/slog"
	"net/http"

	"github.com/noobkia1314/SmartMind/internal/services"
)

type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
}

func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !handler.authService.OIDCConfigured() {
		http.Error(w, "OIDC not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := handler.authService.GenerateState()
	if err != nil {
		slog.Error("generating state", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, handler.authService.LoginURL(state), http.StatusFound)
}

func (handler *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "Invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing code", http.StatusBadRequest)
		return
	}

	profile, err := handler.authService.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("handling callback", "error", err)
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	// Remote goals are fetched and reconciled before the session cookie is
	// issued; a failed fetch leaves the visitor signed out rather than at
	// risk of clobbering their remote data.
	if err := handler.sessionService.SignIn(r.Context(), profile); err != nil {
		slog.Error("signing in", "error", err)
		http.Error(w, "Sign-in failed", http.StatusBadGateway)
		return
	}

	if err := handler.authService.SetSession(w, profile); err != nil {
		slog.Error("setting session", "error", err)
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.sessionService.SignOut(r.Context())
	handler.authService.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Guest establishes a purely local session with no identity provider and no
// remote mirroring.
func (handler *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength > 0 && !decodeBody(w, r, &body) {
		return
	}

	handler.sessionService.EnterGuest(r.Context(), body.Name)
	profile := handler.sessionService.Profile()

	if err := handler.authService.SetSession(w, profile); err != nil {
		slog.Error("setting guest session", "error", err)
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
