package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApiErrMessageHidesCause(t *testing.T) {
	err := NewInternalErrorWithCause("loading posts", errors.New("dial tcp: refused"))

	assert.Equal(t, "loading posts", err.Message())
	assert.Equal(t, "internal error: loading posts", err.Error())
	assert.Contains(t, err.GetFullError(), "dial tcp: refused")
	assert.True(t, IsInternal(err))
}

func TestGetFullErrorFollowsNestedApiErr(t *testing.T) {
	inner := NewNotFound("tag")
	outer := NewTransactionFailedError("tag reconciliation", inner)

	assert.Equal(t, "transaction failed: Transaction failed during tag reconciliation -> not found: tag not found", outer.GetFullError())
}

func TestCheckersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFound("blog post"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnauthorized(wrapped))
	assert.False(t, IsServerSide(wrapped))
}

func TestIsServerSide(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("boom"), true},
		{"internal", NewInternalError("x"), true},
		{"database query", NewDatabaseError("find", "tags", errors.New("syntax error")), true},
		{"not found", NewNotFound("tag"), false},
		{"validation", NewMissingRequiredFieldError("title"), false},
		{"conflict", NewNameConflictError("go", nil), false},
		{"credentials", NewInvalidCredentialsError(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsServerSide(tt.err))
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("create: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_tag_name"`)))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062: Duplicate entry 'go' for key 'idx_tag_name'")))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: tags.name")))
	assert.False(t, IsDuplicateKey(errors.New("no such table: tags")))
}

func TestNewDatabaseErrorClassifies(t *testing.T) {
	dup := NewDatabaseError("create", "tag", gorm.ErrDuplicatedKey)
	assert.True(t, IsUniqueConstraintViolationError(dup))
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	missing := NewDatabaseError("find", "tag", gorm.ErrRecordNotFound)
	assert.True(t, IsNotFound(missing))

	generic := NewDatabaseError("find", "tags", errors.New("syntax error"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
	assert.Equal(t, "Failed to find tags", generic.Message())
}

func TestDomainErrors(t *testing.T) {
	t.Run("query missing is validation", func(t *testing.T) {
		err := NewQueryMissingError()
		assert.True(t, IsQueryMissing(err))
		assert.True(t, IsValidation(err))
		assert.Equal(t, "query missing", err.Message())
	})

	t.Run("too many terms names the limit", func(t *testing.T) {
		err := NewTooManyTermsError(11)
		assert.True(t, IsTooManyTerms(err))
		assert.True(t, IsValidation(err))
		assert.Equal(t, "use at most 11 search terms", err.Message())
	})

	t.Run("name conflict with and without name", func(t *testing.T) {
		named := NewNameConflictError("go", nil)
		assert.Equal(t, `tag name "go" is used more than once`, named.Message())

		anonymous := NewNameConflictError("", gorm.ErrDuplicatedKey)
		assert.Equal(t, "tag names must be unique", anonymous.Message())
		assert.True(t, IsNameConflict(anonymous))
		assert.False(t, IsValidation(anonymous))
	})

	t.Run("invalid credentials does not say which part", func(t *testing.T) {
		err := NewInvalidCredentialsError()
		require.True(t, IsInvalidCredentials(err))
		assert.Equal(t, "invalid credentials", err.Message())
		assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	})
}

func TestTokenErrors(t *testing.T) {
	assert.True(t, IsMissingTokenError(NewMissingTokenError()))
	assert.True(t, IsInvalidTokenError(NewInvalidTokenError(errors.New("bad signature"))))
	assert.True(t, IsTokenExpiredError(NewTokenExpiredError()))
	assert.True(t, IsTokenRevokedError(NewTokenRevokedError()))
	assert.False(t, IsServerSide(NewTokenRevokedError()))
}

func TestUnauthorizedIsDistinctFromBadCredentials(t *testing.T) {
	assert.True(t, IsUnauthorized(NewUnauthorizedError("sign in required")))
	assert.False(t, IsUnauthorized(NewInvalidCredentialsError()))
	assert.False(t, IsUnauthorized(NewTokenExpiredError()))
	assert.False(t, IsServerSide(NewUnauthorizedError("sign in required")))
}
