package api

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/tagblog/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(template.FuncMap{
		"join":      strings.Join,
		"pageURL":   pageURL,
		"pagerData": newPager,
	}).ParseFS(templateFS, "templates/*.html"))

type pager struct {
	services.PostPage
	Base  string
	Query string
}

func newPager(page services.PostPage, base, query string) pager {
	return pager{PostPage: page, Base: base, Query: query}
}

// pageURL links to page n of the listing at base, keeping the search query.
func pageURL(base, query string, n int) string {
	if base == "/search" {
		v := url.Values{}
		v.Set("query", query)
		v.Set("page", strconv.Itoa(n))
		return "/search?" + v.Encode()
	}
	return "/" + strconv.Itoa(n)
}
