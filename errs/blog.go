package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Blog domain errors
var (
	ErrQueryMissing       = errors.New("query missing")
	ErrTooManyTerms       = errors.New("too many search terms")
	ErrNameConflict       = errors.New("tag names must be unique")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func NewQueryMissingError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrQueryMissing,
		Field:      "query",
	}
}

func NewTooManyTermsError(limit int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrTooManyTerms,
		Details:    fmt.Sprintf("use at most %d search terms", limit),
		Field:      "query",
	}
}

// NewNameConflictError reports a tag batch rejected because two tags would
// share a name.
func NewNameConflictError(name string, cause error) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrNameConflict,
		Field:      "name",
		Cause:      cause,
	}
	if name != "" {
		apiErr.Details = fmt.Sprintf("tag name %q is used more than once", name)
	}
	return apiErr
}

// NewInvalidCredentialsError never says which of username or password was wrong.
func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
	}
}

func IsQueryMissing(err error) bool {
	return errors.Is(err, ErrQueryMissing)
}

func IsTooManyTerms(err error) bool {
	return errors.Is(err, ErrTooManyTerms)
}

func IsNameConflict(err error) bool {
	return errors.Is(err, ErrNameConflict)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
