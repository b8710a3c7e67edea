package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rpupo63/tagblog/config"
	"github.com/rpupo63/tagblog/services"
)

const defaultSessionCookie = "tagblog_session"

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, db Pinger, blog *services.Blog, auth *services.Authenticator) (Server, error) {
	if blog == nil || auth == nil {
		return Server{}, fmt.Errorf("server needs a blog and an authenticator")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(db, blog, auth, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180)
	writeTimeout := config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180)
	idleTimeout := config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180)

	server := &http.Server{
		Addr:         address,
		Handler:      otelhttp.NewHandler(router, "tagblog"),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db Pinger, blog *services.Blog, auth *services.Authenticator, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	cookies := cookieSettings{
		name:   config.GetString(router.config, "SESSION_COOKIE_NAME", defaultSessionCookie),
		secure: config.GetBool(router.config, "SECURE_COOKIES", false),
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestID)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(Metrics)
	if config.GetBool(router.config, "REQUEST_LOG", true) {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	}
	if origins := config.GetList(router.config, "ACCEPTED_ORIGINS"); len(origins) > 0 {
		chiRouter.Use(corsMiddleware(origins))
	}

	handlers := initializeHandlers(db, blog, auth, cookies, router.startupTime)
	authMiddleware := newAuthMiddleware(auth, cookies)

	setupFrontendRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msgf("HttpServer gracefully shut down after %s uptime", time.Since(s.startupTime).Round(time.Second))
	}
}
