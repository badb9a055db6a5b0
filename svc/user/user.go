// Package user hashes passwords and "saves" users.
//
// Nothing is persisted: Save returns the stored representation so the HTTP
// layer can project it onto a public shape.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/apitour/pkg/logger"
	"github.com/dmitrymomot/apitour/pkg/validator"
)

// ErrHashFailed wraps hasher failures.
var ErrHashFailed = errors.New("failed to hash password")

// Base holds the fields shared by every user shape.
type Base struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// In is the sign-up payload.
type In struct {
	Base
	Password string `json:"password"`
}

// Validate checks the email format. Presence of username and password is
// enforced by the body binder; empty strings are valid values.
// Field paths are relative to prefix (e.g. "body").
func (u In) Validate(prefix string) error {
	return validator.Apply(
		validator.ValidEmail(validator.Path(prefix, "email"), u.Email),
	)
}

// Out is the public representation.
type Out struct {
	Base
}

// InDB is what Save would store.
type InDB struct {
	Base
	HashedPassword string `json:"hashed_password"`
}

// Service saves users.
type Service struct {
	hasher Hasher
	log    *slog.Logger
}

// NewService returns a Service. A nil hasher means FakeHasher, a nil logger discards.
func NewService(hasher Hasher, log *slog.Logger) *Service {
	if hasher == nil {
		hasher = FakeHasher{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{hasher: hasher, log: log.With(logger.Component("user"))}
}

// Save hashes the password and returns the record. Nothing is written anywhere.
func (s *Service) Save(ctx context.Context, in In) (InDB, error) {
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return InDB{}, fmt.Errorf("%w: %v", ErrHashFailed, err)
	}

	s.log.InfoContext(ctx, "user saved",
		logger.Event("user.saved"),
		slog.String("username", in.Username),
	)

	return InDB{Base: in.Base, HashedPassword: hashed}, nil
}
