package models_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/tagblog/database/dbtest"
	"github.com/rpupo63/tagblog/models"
)

func TestMigrateCreatesJoinTable(t *testing.T) {
	db := dbtest.Open(t)

	for _, table := range []string{"users", "tags", "blogposts", "blogpost_tags"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Tag{}, "idx_tag_name"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_user_username"))
}

func TestColumnMismatchReport(t *testing.T) {
	db := dbtest.Open(t)

	var out bytes.Buffer
	n, err := models.GenerateColumnMismatchReport(db, &out)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "--- Table: blogposts ---")
	assert.Contains(t, out.String(), "All columns are accounted for in the model.")

	require.NoError(t, db.Exec("ALTER TABLE blogposts ADD COLUMN legacy_slug varchar(80)").Error)

	out.Reset()
	n, err = models.GenerateColumnMismatchReport(db, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "  - legacy_slug")
	assert.Contains(t, out.String(), "Total mismatched columns across all tables: 1")
}

func TestBlogpostTagHelpers(t *testing.T) {
	post := models.Blogpost{Tags: []models.Tag{{ID: 1, Name: "First"}, {ID: 2, Name: "not first"}}}

	assert.Equal(t, []string{"First", "not first"}, post.TagNames())
	assert.True(t, post.HasTag(2))
	assert.False(t, post.HasTag(3))
	assert.Empty(t, models.Blogpost{}.TagNames())
}
