// Package moderation backs the admin user-management view. The user list
// has no live subscription; it is loaded once and patched locally after
// each successful write.
package moderation

import (
	"context"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/logger"
)

type AdminUserStore interface {
	List(ctx context.Context) ([]*entity.User, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	Delete(ctx context.Context, id string) error
}

// UserAdmin holds the locally rendered user list. Writes are submitted
// first; on success the list is patched immediately rather than refetched.
// A concurrent admin's change to the same record is not reconciled until
// the next Load — the patch can shadow it in this view.
type UserAdmin struct {
	store  AdminUserStore
	logger *logger.Logger
	users  []*entity.User
}

func NewUserAdmin(store AdminUserStore, log *logger.Logger) *UserAdmin {
	return &UserAdmin{store: store, logger: log}
}

// Load fetches the full user list once.
func (a *UserAdmin) Load(ctx context.Context) error {
	users, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	a.users = users
	return nil
}

// Users returns the locally rendered list.
func (a *UserAdmin) Users() []*entity.User {
	return a.users
}

// Block disables a user and patches the local row. Blocking an already
// blocked user is idempotent.
func (a *UserAdmin) Block(ctx context.Context, userID string) error {
	if err := a.store.SetDisabled(ctx, userID, true); err != nil {
		return err
	}
	a.patchDisabled(userID, true)
	return nil
}

// Unblock re-enables a user and patches the local row.
func (a *UserAdmin) Unblock(ctx context.Context, userID string) error {
	if err := a.store.SetDisabled(ctx, userID, false); err != nil {
		return err
	}
	a.patchDisabled(userID, false)
	return nil
}

// Remove hard-deletes a user and drops the local row.
func (a *UserAdmin) Remove(ctx context.Context, userID string) error {
	if err := a.store.Delete(ctx, userID); err != nil {
		return err
	}
	kept := a.users[:0]
	for _, u := range a.users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	a.users = kept
	return nil
}

func (a *UserAdmin) patchDisabled(userID string, disabled bool) {
	for i, u := range a.users {
		if u.ID == userID {
			patched := *u
			patched.Disabled = disabled
			a.users[i] = &patched
			return
		}
	}
}
