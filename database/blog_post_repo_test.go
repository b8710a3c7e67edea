package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/tagblog/database/dbtest"
	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

func seedTags(t *testing.T, repo *TagRepo, names ...string) []models.Tag {
	t.Helper()
	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		tag := models.Tag{Name: n}
		require.NoError(t, repo.Add(context.Background(), &tag))
		tags = append(tags, tag)
	}
	return tags
}

func TestBlogpostRepoPage(t *testing.T) {
	ctx := context.Background()
	db := New(dbtest.Open(t))
	repo := db.BlogpostRepo()

	posts, total, err := repo.Page(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)

	for i := 1; i <= 25; i++ {
		require.NoError(t, repo.Add(ctx, &models.Blogpost{Title: fmt.Sprintf("post %02d", i), Body: "body"}))
	}

	posts, total, err = repo.Page(ctx, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, posts, 5)
	assert.Equal(t, "post 21", posts[0].Title)
	assert.Equal(t, "post 25", posts[4].Title)

	posts, total, err = repo.Page(ctx, 30, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, posts)
}

func TestBlogpostRepoSearch(t *testing.T) {
	ctx := context.Background()
	db := New(dbtest.Open(t))
	repo := db.BlogpostRepo()

	for _, p := range []models.Blogpost{
		{Title: "alpha", Body: "one two"},
		{Title: "beta", Body: "two three"},
		{Title: "alpha beta", Body: "nothing"},
		{Title: "percent", Body: "50% off"},
	} {
		p := p
		require.NoError(t, repo.Add(ctx, &p))
	}

	posts, total, err := repo.Search(ctx, []string{"%alpha%", "%beta%"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "alpha beta", posts[0].Title)

	posts, _, err = repo.Search(ctx, []string{"%two%"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Less(t, posts[0].ID, posts[1].ID)

	posts, _, err = repo.Search(ctx, []string{"%0/%%"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "percent", posts[0].Title)

	_, total, err = repo.Search(ctx, []string{"%alpha%", "%three%"}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBlogpostRepoAddLinksExistingTags(t *testing.T) {
	ctx := context.Background()
	db := New(dbtest.Open(t))
	tags := seedTags(t, db.TagRepo(), "zeta", "alpha")

	post := &models.Blogpost{Title: "t", Body: "b", Tags: tags}
	require.NoError(t, db.BlogpostRepo().Add(ctx, post))

	stored, err := db.BlogpostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, stored.TagNames())

	all, err := db.TagRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBlogpostRepoReplace(t *testing.T) {
	ctx := context.Background()
	db := New(dbtest.Open(t))
	repo := db.BlogpostRepo()
	tags := seedTags(t, db.TagRepo(), "T1", "T2", "T3")

	post := &models.Blogpost{Title: "before", Body: "before", Tags: tags[:2]}
	require.NoError(t, repo.Add(ctx, post))

	require.NoError(t, repo.Replace(ctx, &models.Blogpost{ID: post.ID, Title: "after", Body: "after", Tags: tags[1:]}))

	stored, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Title)
	assert.Equal(t, []string{"T2", "T3"}, stored.TagNames())
	assert.False(t, stored.HasTag(tags[0].ID))

	err = repo.Replace(ctx, &models.Blogpost{ID: post.ID + 1, Title: "ghost"})
	assert.True(t, errs.IsNotFound(err))
}

func TestBlogpostRepoDelete(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	db := New(gdb)
	tags := seedTags(t, db.TagRepo(), "linked")

	post := &models.Blogpost{Title: "t", Body: "b", Tags: tags}
	require.NoError(t, db.BlogpostRepo().Add(ctx, post))

	require.NoError(t, db.BlogpostRepo().Delete(ctx, post.ID))
	require.NoError(t, db.BlogpostRepo().Delete(ctx, post.ID))
	require.NoError(t, db.BlogpostRepo().Delete(ctx, 0))

	_, err := db.BlogpostRepo().FindByID(ctx, post.ID)
	assert.True(t, errs.IsNotFound(err))

	var links int64
	require.NoError(t, gdb.Table("blogpost_tags").Count(&links).Error)
	assert.Zero(t, links)

	remaining, err := db.TagRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
