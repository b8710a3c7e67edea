package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db Pinger, blog *services.Blog, auth *services.Authenticator, cookies cookieSettings, startupTime time.Time) *routeHandlers {
	sidebar := func(r *http.Request) ([]models.Tag, error) {
		return blog.Tags(r.Context())
	}

	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(blog, sidebar),
		tagHandler:      newTagHandler(blog, sidebar),
		authHandler:     newAuthHandler(auth, cookies, sidebar),
		healthHandler:   newHealthHandler(db, startupTime),
	}
}
