// Package directory resolves authenticated user IDs into full principals:
// email for delivery, preferences for pagination. It replaces what used to
// be a lazily-initialized global directory handle with an explicitly
// injected dependency.
package directory

import (
	"context"
	"errors"
	"fmt"

	"loglens/internal/domain"
	dErrors "loglens/pkg/domainerrors"
	"loglens/pkg/platform/sentinel"
)

// UserStore reads directory users. Writes belong to the external admin
// layer.
type UserStore interface {
	// Get returns a user, or sentinel.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.User, error)
}

// Service turns a session-layer user id into a Principal.
type Service struct {
	users UserStore
}

func New(users UserStore) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &Service{users: users}, nil
}

// Principal loads the caller's directory record. The session layer already
// authenticated the id; this only fills in email and preferences.
func (s *Service) Principal(ctx context.Context, id string) (*domain.Principal, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "principal id is required")
	}

	user, err := s.users.Get(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load user")
	}

	recordsPerPage := user.RecordsPerPage
	if recordsPerPage <= 0 {
		recordsPerPage = 10
	}

	return &domain.Principal{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		RecordsPerPage: recordsPerPage,
	}, nil
}
