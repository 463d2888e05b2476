// Package session derives the current identity, role and display name from
// the auth-state signal plus a profile lookup. One resolver is constructed
// at process start and every view observes it; views never re-read auth
// state on their own.
package session

import (
	"context"
	"sync"

	"codeshareforum/internal/authz"
	"codeshareforum/internal/entity"
	"codeshareforum/internal/identity"
	"codeshareforum/pkg/logger"
)

// Session is the resolved tuple consumers render from. Ready is false only
// during the very first resolution after start; later auth transitions
// re-resolve without dropping back to "not ready".
type Session struct {
	Identity *authz.Identity
	Role     entity.Role
	Username string
	Ready    bool
}

// AuthSignal is the slice of the identity client the resolver consumes.
type AuthSignal interface {
	OnAuthStateChanged(fn func(*identity.AuthState)) func()
	SignOut()
}

// ProfileReader looks up the profile document for an identity.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

type Resolver struct {
	auth     AuthSignal
	profiles ProfileReader
	logger   *logger.Logger

	mu        sync.Mutex
	current   Session
	listeners map[int]func(Session)
	nextID    int
	unsub     func()
}

func NewResolver(auth AuthSignal, profiles ProfileReader, log *logger.Logger) *Resolver {
	return &Resolver{
		auth:      auth,
		profiles:  profiles,
		logger:    log,
		current:   Session{Role: entity.RoleUser},
		listeners: make(map[int]func(Session)),
	}
}

// Start subscribes to the auth signal. The signal fires immediately with
// the current state, so the first resolution completes before Start returns
// and Ready is true from then on.
func (r *Resolver) Start(ctx context.Context) {
	r.unsub = r.auth.OnAuthStateChanged(func(state *identity.AuthState) {
		r.resolve(ctx, state)
	})
}

func (r *Resolver) Stop() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

func (r *Resolver) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn and invokes it immediately with the current
// session. The returned function unsubscribes.
func (r *Resolver) Subscribe(fn func(Session)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	current := r.current
	r.mu.Unlock()

	fn(current)

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

func (r *Resolver) resolve(ctx context.Context, state *identity.AuthState) {
	if state == nil {
		r.publish(Session{Identity: nil, Role: entity.RoleUser, Username: "", Ready: true})
		return
	}

	profile, err := r.profiles.GetByID(ctx, state.UserID)
	if err != nil {
		// Fail open on a transient profile-read error: signed in, default
		// role, no username. No retry; the UI must not hang on a spinner.
		r.logger.Warn("profile lookup failed for %s: %v", state.UserID, err)
		r.publish(Session{Identity: &authz.Identity{ID: state.UserID}, Role: entity.RoleUser, Username: "", Ready: true})
		return
	}

	if profile.Disabled {
		// A disabled user is never observable as signed-in. Force the
		// sign-out; its auth-state callback re-resolves to the none state.
		r.auth.SignOut()
		return
	}

	role := entity.RoleUser
	if profile.Role == entity.RoleAdmin {
		role = entity.RoleAdmin
	}

	r.publish(Session{
		Identity: &authz.Identity{ID: state.UserID},
		Role:     role,
		Username: profile.Username,
		Ready:    true,
	})
}

func (r *Resolver) publish(s Session) {
	r.mu.Lock()
	r.current = s
	listeners := make([]func(Session), 0, len(r.listeners))
	for _, fn := range r.listeners {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}
