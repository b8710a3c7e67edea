package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/services"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      *services.Blog
}

func newTagHandler(blog *services.Blog, sidebar func(r *http.Request) ([]models.Tag, error)) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger, sidebar),
		logger:    logger,
		blog:      blog,
	}
}

// tagRowsFromForm collects the tags-N-id / tags-N-name pairs ordered by N.
func tagRowsFromForm(form map[string][]string) []services.TagRow {
	rows := make(map[int]*services.TagRow)
	for key, values := range form {
		if !strings.HasPrefix(key, "tags-") || len(values) == 0 {
			continue
		}
		parts := strings.Split(key, "-")
		if len(parts) != 3 {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			continue
		}

		row, ok := rows[n]
		if !ok {
			row = &services.TagRow{}
			rows[n] = row
		}
		switch parts[2] {
		case "id":
			row.ID = strings.TrimSpace(values[0])
		case "name":
			row.Name = values[0]
		}
	}

	indexes := make([]int, 0, len(rows))
	for n := range rows {
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)

	ordered := make([]services.TagRow, 0, len(indexes))
	for _, n := range indexes {
		ordered = append(ordered, *rows[n])
	}
	return ordered
}

// editTags renders the tag editor and reconciles submitted rows
// @Router /edittags [get]
// @Router /edittags [post]
func (h tagHandler) editTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			tags, err := h.blog.Tags(r.Context())
			if err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			h.responder.Render(w, r, http.StatusOK, "edittags", map[string]interface{}{
				"title": "Edit tags",
				"rows":  services.EditorRows(tags),
			})
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, r, errs.NewMalformedPayloadError("form", err))
			return
		}

		rows := tagRowsFromForm(r.PostForm)
		if _, err := h.blog.ReconcileTags(r.Context(), rows); err != nil {
			if errs.IsServerSide(err) {
				h.responder.WriteError(w, r, err)
				return
			}
			h.logger.Warn().Err(err).Msg("tag edit rejected")
			h.responder.Render(w, r, http.StatusBadRequest, "edittags", map[string]interface{}{
				"title":   "Edit tags",
				"rows":    append(rows, services.TagRow{}),
				"message": messageOf(err),
			})
			return
		}

		h.responder.RedirectWithFlash(w, r, "/edittags", "Tags were saved")
	}
}
