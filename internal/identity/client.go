// Package identity adapts the external identity provider: account
// sign-up/sign-in/sign-out, the "auth state changed" subscription, the
// verification email and display-name updates. Sessions are jwt tokens;
// passwords are bcrypt-hashed in the account store.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"codeshareforum/internal/store"
	"codeshareforum/pkg/jwt"
	"codeshareforum/pkg/logger"
	"codeshareforum/pkg/mailer"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the provider's weak-password threshold.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthState describes the signed-in actor, or nil for signed-out.
type AuthState struct {
	UserID      string
	Email       string
	DisplayName string
	Token       string
}

// AccountStore is the slice of the document store the client needs.
type AccountStore interface {
	Create(ctx context.Context, acc *store.Account) error
	GetByEmail(ctx context.Context, email string) (*store.Account, error)
	GetByID(ctx context.Context, id string) (*store.Account, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
	MarkVerified(ctx context.Context, id string) error
}

// Client owns the process-wide auth state. Constructed once at start;
// every consumer observes transitions through OnAuthStateChanged rather
// than reading state ad hoc.
type Client struct {
	accounts AccountStore
	tokens   *jwt.Service
	sender   mailer.Sender
	logger   *logger.Logger

	mu        sync.Mutex
	current   *AuthState
	listeners map[int]func(*AuthState)
	nextID    int
}

func NewClient(accounts AccountStore, tokens *jwt.Service, sender mailer.Sender, log *logger.Logger) *Client {
	return &Client{
		accounts:  accounts,
		tokens:    tokens,
		sender:    sender,
		logger:    log,
		listeners: make(map[int]func(*AuthState)),
	}
}

// OnAuthStateChanged registers fn and invokes it immediately with the
// current state (possibly nil). The returned function unsubscribes; after it
// returns, fn is never invoked again.
func (c *Client) OnAuthStateChanged(fn func(*AuthState)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	state := c.current
	c.mu.Unlock()

	fn(state)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// CurrentState returns the signed-in state, or nil.
func (c *Client) CurrentState() *AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SignUp creates an account and signs it in.
func (c *Client) SignUp(ctx context.Context, displayName, email, password string) (*AuthState, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := c.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, store.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := &store.Account{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := c.accounts.Create(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return c.establishSession(acc)
}

// SignIn verifies credentials and establishes a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthState, error) {
	acc, err := c.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, ErrWrongCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongCredentials
	}

	return c.establishSession(acc)
}

// RestoreSession re-establishes a session from a previously issued token,
// the provider's session-persistence path. Any token or account problem
// collapses to the credentials error; the caller falls back to a fresh
// sign-in.
func (c *Client) RestoreSession(ctx context.Context, token string) (*AuthState, error) {
	claims, err := c.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrWrongCredentials
	}

	acc, err := c.accounts.GetByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, ErrWrongCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return c.establishSession(acc)
}

// ConfirmEmailVerified records that the current account followed the
// verification link.
func (c *Client) ConfirmEmailVerified(ctx context.Context) error {
	state := c.CurrentState()
	if state == nil {
		return ErrNotSignedIn
	}
	return c.accounts.MarkVerified(ctx, state.UserID)
}

// SignOut clears the session and notifies subscribers with a nil state.
// Signing out while signed out is a no-op.
func (c *Client) SignOut() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// SendVerificationEmail mails the current account a verification notice.
func (c *Client) SendVerificationEmail(ctx context.Context) error {
	state := c.CurrentState()
	if state == nil {
		return ErrNotSignedIn
	}

	msg := mailer.Message{
		To:      []string{state.Email},
		Subject: "Verify your CodeShareForum account",
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>Please verify your email address to finish setting up your account.</p>", state.DisplayName),
	}
	if err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// UpdateDisplayName renames the current account. Existing posts and
// comments keep their snapshotted author name.
func (c *Client) UpdateDisplayName(ctx context.Context, displayName string) error {
	state := c.CurrentState()
	if state == nil {
		return ErrNotSignedIn
	}

	if err := c.accounts.UpdateDisplayName(ctx, state.UserID, displayName); err != nil {
		return err
	}

	c.mu.Lock()
	if c.current != nil && c.current.UserID == state.UserID {
		updated := *c.current
		updated.DisplayName = displayName
		c.current = &updated
	}
	c.mu.Unlock()
	return nil
}

func (c *Client) establishSession(acc *store.Account) (*AuthState, error) {
	token, err := c.tokens.GenerateToken(acc.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	state := &AuthState{
		UserID:      acc.ID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		Token:       token,
	}

	c.mu.Lock()
	c.current = state
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return state, nil
}

func (c *Client) snapshotListeners() []func(*AuthState) {
	out := make([]func(*AuthState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}
