package services

import (
	"strings"

	"github.com/rpupo63/tagblog/models"
)

// likeEscaper prefixes the LIKE metacharacters and the escape character
// itself with '/'.
var likeEscaper = strings.NewReplacer("/", "//", "%", "/%", "_", "/_")

// Terms splits a query on whitespace.
func Terms(query string) []string {
	return strings.Fields(query)
}

// EscapeLike makes term safe to embed in a LIKE pattern using '/' as the
// escape character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// ContainsPattern is the LIKE pattern matching any value containing term.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}

// ClampPage maps any page below 1 to 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageCount is ceil(total/size); zero items make zero pages.
func PageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []models.Blogpost
	Page  int
	Pages int
	Total int64
}

func (p PostPage) HasPrev() bool { return p.Page > 1 && p.Pages > 0 }

func (p PostPage) HasNext() bool { return p.Page < p.Pages }

func (p PostPage) PrevPage() int { return p.Page - 1 }

func (p PostPage) NextPage() int { return p.Page + 1 }

func emptyPage(page int) PostPage {
	return PostPage{Posts: []models.Blogpost{}, Page: page}
}
