package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/telemetry"
)

// PostStore persists blog posts.
type PostStore interface {
	Page(ctx context.Context, offset, limit int) ([]models.Blogpost, int64, error)
	Search(ctx context.Context, patterns []string, offset, limit int) ([]models.Blogpost, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Blogpost, error)
	Add(ctx context.Context, post *models.Blogpost) error
	Replace(ctx context.Context, post *models.Blogpost) error
	Delete(ctx context.Context, id uint) error
}

// TagStore persists tags.
type TagStore interface {
	FindAll(ctx context.Context) ([]models.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	Reconcile(ctx context.Context, plan func(stored []models.Tag) (models.TagChanges, error)) (models.TagChanges, error)
}

// Blog implements listing, search, post management and tag reconciliation.
type Blog struct {
	posts    PostStore
	tags     TagStore
	settings Settings
	logger   zerolog.Logger
}

func NewBlog(posts PostStore, tags TagStore, settings Settings) *Blog {
	return &Blog{
		posts:    posts,
		tags:     tags,
		settings: settings,
		logger:   log.With().Str("service", "blog").Logger(),
	}
}

// offset is the number of posts before page. It saturates instead of
// overflowing, so pages far past the end stay empty.
func (b *Blog) offset(page int) int {
	if page-1 > math.MaxInt/b.settings.PageSize {
		return math.MaxInt
	}
	return (page - 1) * b.settings.PageSize
}

// List returns one page of all posts. Pages below 1 are treated as 1.
func (b *Blog) List(ctx context.Context, page int) (PostPage, error) {
	page = ClampPage(page)
	posts, total, err := b.posts.Page(ctx, b.offset(page), b.settings.PageSize)
	if err != nil {
		return emptyPage(page), err
	}
	return PostPage{Posts: posts, Page: page, Pages: PageCount(total, b.settings.PageSize), Total: total}, nil
}

// Search returns one page of the posts in which every whitespace separated
// term of query occurs in the title or the body.
//
// An empty query yields a query-missing error. A query with more terms than
// allowed yields an empty page with zero pages together with a
// too-many-terms error; no lookup is made in that case.
func (b *Blog) Search(ctx context.Context, query string, page int) (PostPage, error) {
	page = ClampPage(page)

	terms := Terms(query)
	if len(terms) == 0 {
		telemetry.Searches.WithLabelValues("missing").Inc()
		return emptyPage(page), errs.NewQueryMissingError()
	}
	if len(terms) > b.settings.MaxSearchTerms {
		telemetry.Searches.WithLabelValues("too_many_terms").Inc()
		return emptyPage(page), errs.NewTooManyTermsError(b.settings.MaxSearchTerms)
	}

	patterns := make([]string, len(terms))
	for i, term := range terms {
		patterns[i] = ContainsPattern(term)
	}

	posts, total, err := b.posts.Search(ctx, patterns, b.offset(page), b.settings.PageSize)
	if err != nil {
		telemetry.Searches.WithLabelValues("error").Inc()
		return emptyPage(page), err
	}

	outcome := "ok"
	if total == 0 {
		outcome = "empty"
	}
	telemetry.Searches.WithLabelValues(outcome).Inc()

	return PostPage{Posts: posts, Page: page, Pages: PageCount(total, b.settings.PageSize), Total: total}, nil
}

// Post returns a single post with its tags.
func (b *Blog) Post(ctx context.Context, id uint) (*models.Blogpost, error) {
	return b.posts.FindByID(ctx, id)
}

// PostInput is the submitted content of a post.
type PostInput struct {
	Title  string
	Body   string
	TagIDs []uint
}

func (b *Blog) validate(in PostInput) error {
	title := strings.TrimSpace(in.Title)
	if b.settings.TitleRequired && title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if utf8.RuneCountInString(in.Title) > b.settings.MaxTitleLength {
		return errs.NewInvalidFieldError("title", "titles are limited to "+strconv.Itoa(b.settings.MaxTitleLength)+" characters")
	}
	return nil
}

// CreatePost stores a new post. Tag ids that do not name an existing tag are
// dropped.
func (b *Blog) CreatePost(ctx context.Context, in PostInput) (*models.Blogpost, error) {
	if err := b.validate(in); err != nil {
		return nil, err
	}

	tags, err := b.tags.FindByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	post := &models.Blogpost{Title: in.Title, Body: in.Body, Tags: tags}
	if err := b.posts.Add(ctx, post); err != nil {
		return nil, err
	}

	b.logger.Info().Uint("postID", post.ID).Int("tags", len(tags)).Msg("blog post created")
	return post, nil
}

// EditPost replaces title, body and tag set of an existing post. An unknown
// id yields a not-found error and changes nothing.
func (b *Blog) EditPost(ctx context.Context, id uint, in PostInput) (*models.Blogpost, error) {
	if err := b.validate(in); err != nil {
		return nil, err
	}

	tags, err := b.tags.FindByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	post := &models.Blogpost{ID: id, Title: in.Title, Body: in.Body, Tags: tags}
	if err := b.posts.Replace(ctx, post); err != nil {
		return nil, err
	}

	b.logger.Info().Uint("postID", id).Int("tags", len(tags)).Msg("blog post edited")
	return post, nil
}

// DeletePost removes a post. Deleting an id that does not exist succeeds.
func (b *Blog) DeletePost(ctx context.Context, id uint) error {
	if err := b.posts.Delete(ctx, id); err != nil {
		return err
	}
	b.logger.Info().Uint("postID", id).Msg("blog post deleted")
	return nil
}

// Tags returns every stored tag.
func (b *Blog) Tags(ctx context.Context) ([]models.Tag, error) {
	return b.tags.FindAll(ctx)
}

// ReconcileTags makes the stored tags match rows in a single transaction and
// returns what was written.
func (b *Blog) ReconcileTags(ctx context.Context, rows []TagRow) (models.TagChanges, error) {
	changes, err := b.tags.Reconcile(ctx, func(stored []models.Tag) (models.TagChanges, error) {
		return PlanTagChanges(stored, rows, b.settings.MaxTagLength)
	})
	if err != nil {
		return models.TagChanges{}, err
	}

	telemetry.TagWrites.WithLabelValues("insert").Add(float64(len(changes.Inserts)))
	telemetry.TagWrites.WithLabelValues("update").Add(float64(len(changes.Updates)))
	telemetry.TagWrites.WithLabelValues("delete").Add(float64(len(changes.Deletes)))

	b.logger.Info().
		Int("inserted", len(changes.Inserts)).
		Int("updated", len(changes.Updates)).
		Int("deleted", len(changes.Deletes)).
		Msg("tags reconciled")
	return changes, nil
}
