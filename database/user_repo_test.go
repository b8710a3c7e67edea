package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/tagblog/database/dbtest"
	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
)

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	db := New(dbtest.Open(t))
	repo := db.UserRepo()

	require.NoError(t, repo.Add(ctx, &models.User{Username: "admin", PasswordHash: "hash"}))

	user, err := repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash", user.PasswordHash)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.True(t, errs.IsNotFound(err))

	err = repo.Add(ctx, &models.User{Username: "admin", PasswordHash: "other"})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	assert.NoError(t, db.Ping(ctx))
}
