package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	tagHandler      tagHandler
	authHandler     authHandler
	healthHandler   healthHandler
}

// postForm holds submitted post fields for re-rendering the form.
type postForm struct {
	Title string
	Body  string
}

func selectedTags(ids []uint) map[uint]bool {
	selected := make(map[uint]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	return selected
}

// cookieSettings controls how the session cookie is written.
type cookieSettings struct {
	name   string
	secure bool
}
