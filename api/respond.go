package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

const (
	flashCookie = "tagblog_flash"

	internalErrorMessage = "internal error"
)

type Responder struct {
	logger zerolog.Logger
	// tags feeds the tag sidebar shown on every page
	tags func(r *http.Request) ([]models.Tag, error)
}

func NewResponder(logger zerolog.Logger, tags func(r *http.Request) ([]models.Tag, error)) Responder {
	return Responder{logger: logger, tags: tags}
}

// log returns the request scoped logger when middleware installed one.
func (rs Responder) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &rs.logger
}

// commonData adds what every page needs: the session, the pending flash
// message, the tag sidebar and the current location for login/logout links.
func (rs Responder) commonData(w http.ResponseWriter, r *http.Request, payload map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{
		"here":  r.URL.RequestURI(),
		"flash": popFlash(w, r),
	}
	if s, ok := ctxGetSession(r.Context()); ok {
		data["session"] = s
	}
	if rs.tags != nil {
		tags, err := rs.tags(r)
		if err != nil {
			rs.log(r).Error().Err(err).Msg("loading tag sidebar")
		}
		data["allTags"] = tags
	}
	for k, v := range payload {
		data[k] = v
	}
	return data
}

// Render executes the named page template. Output is buffered so a template
// failure never leaves a half written page behind.
func (rs Responder) Render(w http.ResponseWriter, r *http.Request, status int, page string, payload map[string]interface{}) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, page, rs.commonData(w, r, payload)); err != nil {
		rs.log(r).Error().Err(err).Str("template", page).Msg("error rendering template")
		rs.renderFailure(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rs.log(r).Error().Err(err).Msg("error writing response")
	}
}

// renderFailure writes the bare error page used when nothing better is possible.
func (rs Responder) renderFailure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := templates.ExecuteTemplate(w, "error", map[string]interface{}{"message": internalErrorMessage}); err != nil {
		rs.log(r).Error().Err(err).Msg("error rendering error page")
	}
}

// Redirect sends the client to target with 303 See Other so that form posts
// are followed by a GET.
func (rs Responder) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectWithFlash redirects and shows message on the next rendered page.
func (rs Responder) RedirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	setFlash(w, message)
	rs.Redirect(w, r, target)
}

// WriteError is the last line of defence for handler failures. Requests
// lacking a session go to the login page. Other expected errors become a
// flash message on the "next" location; anything else is logged and reported
// as a generic internal error.
func (rs Responder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if errs.IsUnauthorized(err) {
		rs.Redirect(w, r, loginURL(r))
		return
	}

	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) || errs.IsServerSide(err) {
		event := rs.log(r).Error().Str("method", r.Method).Str("path", r.URL.Path)
		if apiErr != nil {
			event = event.Str("error", apiErr.GetFullError())
		} else {
			event = event.Err(err)
		}
		event.Msg("internal error")

		target := redirectTarget(r)
		if r.Method == http.MethodGet && target == r.URL.Path {
			rs.renderFailure(w, r)
			return
		}
		rs.RedirectWithFlash(w, r, target, internalErrorMessage)
		return
	}

	rs.RedirectWithFlash(w, r, redirectTarget(r), apiErr.Message())
}

// safeNext returns next when it is a local absolute path, otherwise the index.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// loginURL sends the visitor back to the current request after signing in.
func loginURL(r *http.Request) string {
	return "/login?next=" + url.QueryEscape(r.URL.RequestURI())
}

// redirectTarget applies the redirect fallback rule to the request's "next" value.
func redirectTarget(r *http.Request) string {
	return safeNext(r.FormValue("next"))
}

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	message, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return message
}
