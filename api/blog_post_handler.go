package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/services"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.Blog
}

func newBlogPostHandler(blog *services.Blog, sidebar func(r *http.Request) ([]models.Tag, error)) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger, sidebar),
		logger:    logger,
		blog:      blog,
	}
}

// parseID reads a positive integer id. Anything else is reported as zero.
func parseID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// parsePage reads a page number, defaulting to 1. Clamping happens in the
// blog service.
func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return page
}

// parseTagIDs keeps the numeric values of the "tags" field. Non numeric values
// are dropped like unknown ids.
func parseTagIDs(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		if id := parseID(v); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// listPosts renders page N of every post
// @Router / [get]
// @Router /{page} [get]
func (h blogPostHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := chi.URLParam(r, "page"); raw != "" {
			page = parsePage(raw)
		}

		result, err := h.blog.List(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.Render(w, r, http.StatusOK, "index", map[string]interface{}{
			"page":  result,
			"base":  "/",
			"query": "",
		})
	}
}

// searchPosts renders page N of the posts matching every query term
// @Router /search [get]
func (h blogPostHandler) searchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		page := parsePage(r.URL.Query().Get("page"))

		result, err := h.blog.Search(r.Context(), query, page)
		data := map[string]interface{}{
			"title":    "Search",
			"page":     result,
			"base":     "/search",
			"query":    query,
			"searched": err == nil,
		}

		switch {
		case err == nil:
		case errs.IsQueryMissing(err), errs.IsTooManyTerms(err):
			data["message"] = messageOf(err)
		default:
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.Render(w, r, http.StatusOK, "search", data)
	}
}

// getPost renders a single post; unknown ids go back to the fallback location
// @Router /post/{postID} [get]
func (h blogPostHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := parseID(chi.URLParam(r, "postID"))
		if id == 0 {
			h.responder.WriteError(w, r, errs.NewNotFound("blog post"))
			return
		}

		post, err := h.blog.Post(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.Render(w, r, http.StatusOK, "postpage", map[string]interface{}{
			"title": post.Title,
			"post":  post,
		})
	}
}

func (h blogPostHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, postID uint, form postForm, tagIDs []uint, message string) {
	data := map[string]interface{}{
		"form":     form,
		"selected": selectedTags(tagIDs),
	}
	if postID != 0 {
		data["postID"] = postID
		data["title"] = "Edit post"
	} else {
		data["title"] = "New post"
	}
	if message != "" {
		data["message"] = message
	}
	h.responder.Render(w, r, status, "postform", data)
}

func readPostInput(r *http.Request) services.PostInput {
	return services.PostInput{
		Title:  r.PostFormValue("title"),
		Body:   r.PostFormValue("body"),
		TagIDs: parseTagIDs(r.PostForm["tags"]),
	}
}

// createPost renders the new-post form and stores submitted posts
// @Router /addpost [get]
// @Router /addpost [post]
func (h blogPostHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.renderForm(w, r, http.StatusOK, 0, postForm{}, nil, "")
			return
		}

		if err := r.ParseForm(); err != nil {
			h.renderForm(w, r, http.StatusBadRequest, 0, postForm{}, nil, "malformed form")
			return
		}

		in := readPostInput(r)
		post, err := h.blog.CreatePost(r.Context(), in)
		if errs.IsValidation(err) {
			h.renderForm(w, r, http.StatusBadRequest, 0, postForm{Title: in.Title, Body: in.Body}, in.TagIDs, messageOf(err))
			return
		}
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.RedirectWithFlash(w, r, fmt.Sprintf("/post/%d", post.ID), "New post was successfully added")
	}
}

// editPost renders the edit form for ?id= and applies submitted edits
// @Router /editpost [get]
// @Router /editpost [post]
func (h blogPostHandler) editPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, r, errs.NewMalformedPayloadError("form", err))
			return
		}

		id := parseID(r.FormValue("id"))
		if id == 0 {
			h.responder.WriteError(w, r, errs.NewNotFound("blog post"))
			return
		}

		if r.Method == http.MethodGet {
			post, err := h.blog.Post(r.Context(), id)
			if err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			tagIDs := make([]uint, 0, len(post.Tags))
			for _, t := range post.Tags {
				tagIDs = append(tagIDs, t.ID)
			}
			h.renderForm(w, r, http.StatusOK, id, postForm{Title: post.Title, Body: post.Body}, tagIDs, "")
			return
		}

		in := readPostInput(r)
		_, err := h.blog.EditPost(r.Context(), id, in)
		if errs.IsValidation(err) {
			h.renderForm(w, r, http.StatusBadRequest, id, postForm{Title: in.Title, Body: in.Body}, in.TagIDs, messageOf(err))
			return
		}
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.RedirectWithFlash(w, r, fmt.Sprintf("/post/%d", id), "Post was successfully edited")
	}
}

// deletePost asks for confirmation on GET and removes the post named by the
// "id" value on POST, then goes back
// @Router /deletepost [get]
// @Router /deletepost [post]
func (h blogPostHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.FormValue("id")
		id := parseID(raw)
		if id == 0 {
			h.responder.WriteError(w, r, errs.NewInvalidFieldError("id", fmt.Sprintf("%q is not a post id", raw)))
			return
		}

		if r.Method == http.MethodGet {
			post, err := h.blog.Post(r.Context(), id)
			if err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			h.responder.Render(w, r, http.StatusOK, "deletepost", map[string]interface{}{
				"title": "Delete post",
				"post":  post,
				"next":  r.FormValue("next"),
			})
			return
		}

		if err := h.blog.DeletePost(r.Context(), id); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		h.responder.RedirectWithFlash(w, r, redirectTarget(r), "Post was deleted")
	}
}

// messageOf is the visitor facing text of an expected error.
func messageOf(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return internalErrorMessage
}
