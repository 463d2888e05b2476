package identity

import (
	"context"
	"errors"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/logger"
)

// ErrMissingFields is a pre-I/O validation failure: registration needs a
// name, an email and a password before anything is submitted.
var ErrMissingFields = errors.New("missing required fields")

// ProfileStore is the slice of the document store registration writes to.
type ProfileStore interface {
	Create(ctx context.Context, user *entity.User) error
}

// Service orchestrates the registration and login flows on top of the raw
// auth client: account creation, display name, verification email and the
// initial profile document.
type Service struct {
	client *Client
	users  ProfileStore
	logger *logger.Logger
}

func NewService(client *Client, users ProfileStore, log *logger.Logger) *Service {
	return &Service{client: client, users: users, logger: log}
}

func (s *Service) Client() *Client { return s.client }

// Register validates input, creates the account, sends the verification
// email and writes the initial profile document. The profile starts as a
// plain USER, not disabled, flagged for profile setup.
func (s *Service) Register(ctx context.Context, name, email, password string) (*AuthState, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	state, err := s.client.SignUp(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	// Verification mail is best-effort; registration already succeeded.
	if err := s.client.SendVerificationEmail(ctx); err != nil {
		s.logger.Warn("verification email not sent to %s: %v", state.Email, err)
	}

	profile := &entity.User{
		ID:                state.UserID,
		Email:             state.Email,
		Username:          state.DisplayName,
		Role:              entity.RoleUser,
		Disabled:          false,
		NeedsProfileSetup: true,
	}
	if err := s.users.Create(ctx, profile); err != nil {
		s.logger.Error("profile document not created for %s: %v", state.UserID, err)
	}

	return state, nil
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthState, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	return s.client.SignIn(ctx, email, password)
}

// Logout drops the session.
func (s *Service) Logout() {
	s.client.SignOut()
}
