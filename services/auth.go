package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/tagblog/errs"
	"github.com/rpupo63/tagblog/models"
	"github.com/rpupo63/tagblog/telemetry"
)

// UserStore looks up accounts by name.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Session is the identity carried by a valid session token.
type Session struct {
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticator checks credentials and issues and verifies signed session
// tokens.
type Authenticator struct {
	users   UserStore
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
	logger  zerolog.Logger
}

// NewAuthenticator signs tokens with secret; they expire after ttl. A nil
// revoker disables logout revocation.
func NewAuthenticator(users UserStore, secret []byte, ttl time.Duration, revoker Revoker) *Authenticator {
	if revoker == nil {
		revoker = NopRevoker{}
	}
	return &Authenticator{
		users:   users,
		secret:  secret,
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
		logger:  log.With().Str("service", "auth").Logger(),
	}
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// unknownUserHash is compared against when the username does not exist so a
// miss costs the same as a wrong password.
var unknownUserHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("tagblog-unknown-user"), bcrypt.DefaultCost)
	return h
})

// Login verifies username and password and returns a signed session token.
// Both an unknown username and a wrong password produce the same
// invalid-credentials error.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, Session, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if !errs.IsNotFound(err) {
			telemetry.Logins.WithLabelValues("error").Inc()
			return "", Session{}, err
		}
		_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(password))
		telemetry.Logins.WithLabelValues("invalid").Inc()
		return "", Session{}, errs.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		telemetry.Logins.WithLabelValues("invalid").Inc()
		return "", Session{}, errs.NewInvalidCredentialsError()
	}

	session := Session{
		Username:  user.Username,
		TokenID:   uuid.NewString(),
		ExpiresAt: a.now().Add(a.ttl),
	}
	token, err := a.sign(session)
	if err != nil {
		telemetry.Logins.WithLabelValues("error").Inc()
		return "", Session{}, err
	}

	telemetry.Logins.WithLabelValues("ok").Inc()
	a.logger.Info().Str("username", user.Username).Msg("user logged in")
	return token, session, nil
}

func (a *Authenticator) sign(s Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.Username,
		ID:        s.TokenID,
		IssuedAt:  jwt.NewNumericDate(a.now()),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("signing session token", err)
	}
	return signed, nil
}

// Verify parses a session token and checks signature, expiry and revocation.
func (a *Authenticator) Verify(ctx context.Context, tokenStr string) (Session, error) {
	if tokenStr == "" {
		return Session{}, errs.NewMissingTokenError()
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Session{}, errs.NewTokenExpiredError()
	}
	if err != nil {
		return Session{}, errs.NewInvalidTokenError(err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return Session{}, errs.NewInvalidTokenError(errors.New("token without subject or id"))
	}

	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, errs.NewInternalErrorWithCause("checking session revocation", err)
	}
	if revoked {
		return Session{}, errs.NewTokenRevokedError()
	}

	return Session{
		Username:  claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session's token for the rest of its lifetime.
func (a *Authenticator) Logout(ctx context.Context, s Session) error {
	remaining := s.ExpiresAt.Sub(a.now())
	if s.TokenID == "" || remaining <= 0 {
		return nil
	}
	if err := a.revoker.Revoke(ctx, s.TokenID, remaining); err != nil {
		return errs.NewInternalErrorWithCause("revoking session", err)
	}
	a.logger.Info().Str("username", s.Username).Msg("user logged out")
	return nil
}
