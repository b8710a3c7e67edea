package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.Authenticator
	cookies   cookieSettings
}

func newAuthHandler(auth *services.Authenticator, cookies cookieSettings, sidebar func(r *http.Request) ([]models.Tag, error)) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, sidebar),
		logger:    logger,
		auth:      auth,
		cookies:   cookies,
	}
}

func (h authHandler) setSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookies.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// login renders the login form and signs the admin in
// @Router /login [get]
// @Router /login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.responder.Render(w, r, http.StatusOK, "login", map[string]interface{}{
				"title": "Login",
				"next":  r.URL.Query().Get("next"),
			})
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, r, errs.NewMalformedPayloadError("form", err))
			return
		}

		username := r.PostFormValue("username")
		token, session, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
		if errs.IsInvalidCredentials(err) {
			h.responder.Render(w, r, http.StatusUnauthorized, "login", map[string]interface{}{
				"title":    "Login",
				"next":     r.PostFormValue("next"),
				"username": username,
				"message":  messageOf(err),
			})
			return
		}
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.setSession(w, token, session.ExpiresAt)
		h.responder.RedirectWithFlash(w, r, redirectTarget(r), "Logged in successfully")
	}
}

// logout ends the current session
// @Router /logout [get]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := ctxGetSession(r.Context()); ok {
			if err := h.auth.Logout(r.Context(), s); err != nil {
				h.logger.Error().Err(err).Str("username", s.Username).Msg("error revoking session")
			}
		}

		clearCookie(w, h.cookies.name, h.cookies.secure)
		h.responder.RedirectWithFlash(w, r, redirectTarget(r), "Logged out")
	}
}
