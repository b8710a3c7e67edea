package services

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

// TagRow is one submitted row of the tag editor. An empty ID means a new tag.
type TagRow struct {
	ID   string
	Name string
}

// PlanTagChanges diffs the submitted rows against the stored tags:
//
//   - rows with an empty name are ignored
//   - stored tags whose id is not submitted are deleted
//   - every submitted existing id gets its name written, changed or not
//   - every row without an id is inserted
//
// Rows naming an unknown or malformed id, and rows repeating a name, reject
// the whole plan.
func PlanTagChanges(stored []models.Tag, rows []TagRow, maxNameLength int) (models.TagChanges, error) {
	known := make(map[uint]bool, len(stored))
	for _, t := range stored {
		known[t.ID] = true
	}

	var changes models.TagChanges
	kept := make(map[uint]bool)
	names := make(map[string]bool)

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if maxNameLength > 0 && utf8.RuneCountInString(name) > maxNameLength {
			return models.TagChanges{}, errs.NewInvalidFieldError("name", "tag names are limited to "+strconv.Itoa(maxNameLength)+" characters")
		}
		if names[name] {
			return models.TagChanges{}, errs.NewNameConflictError(name, nil)
		}
		names[name] = true

		rawID := strings.TrimSpace(row.ID)
		if rawID == "" {
			changes.Inserts = append(changes.Inserts, name)
			continue
		}

		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || !known[uint(id)] {
			return models.TagChanges{}, errs.NewNotFoundError("tag " + rawID + " not found")
		}
		if kept[uint(id)] {
			return models.TagChanges{}, errs.NewInvalidFieldError("id", "tag "+rawID+" submitted twice")
		}
		kept[uint(id)] = true
		changes.Updates = append(changes.Updates, models.Tag{ID: uint(id), Name: name})
	}

	for _, t := range stored {
		if !kept[t.ID] {
			changes.Deletes = append(changes.Deletes, t.ID)
		}
	}
	return changes, nil
}

// EditorRows turns stored tags into editor rows and always appends one blank
// row for a new tag.
func EditorRows(tags []models.Tag) []TagRow {
	rows := make([]TagRow, 0, len(tags)+1)
	for _, t := range tags {
		rows = append(rows, TagRow{ID: strconv.FormatUint(uint64(t.ID), 10), Name: t.Name})
	}
	return append(rows, TagRow{})
}
