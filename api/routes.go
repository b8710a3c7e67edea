package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupFrontendRoutes sets up the public pages, the admin-only pages and the
// operational endpoints
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.loadSession)

		// Public pages
		r.Get("/", handlers.blogPostHandler.listPosts())
		r.Get("/{page:-?[0-9]+}", handlers.blogPostHandler.listPosts())
		r.Get("/search", handlers.blogPostHandler.searchPosts())
		r.Get("/post/{postID}", handlers.blogPostHandler.getPost())
		r.Get("/login", handlers.authHandler.login())
		r.Post("/login", handlers.authHandler.login())

		// Admin pages
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Get("/logout", handlers.authHandler.logout())

			r.Get("/edittags", handlers.tagHandler.editTags())
			r.Post("/edittags", handlers.tagHandler.editTags())

			r.Get("/addpost", handlers.blogPostHandler.createPost())
			r.Post("/addpost", handlers.blogPostHandler.createPost())

			r.Get("/editpost", handlers.blogPostHandler.editPost())
			r.Post("/editpost", handlers.blogPostHandler.editPost())

			r.Get("/deletepost", handlers.blogPostHandler.deletePost())
			r.Post("/deletepost", handlers.blogPostHandler.deletePost())
		})
	})
}
