package identity

import (
	"context"
	"fmt"
	"testing"

	"codeshareforum/internal/store"
	"codeshareforum/pkg/jwt"
	"codeshareforum/pkg/logger"
	"codeshareforum/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ AccountStore = (*store.AccountRepository)(nil)

type fakeAccounts struct {
	byEmail map[string]*store.Account
	nextID  int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: make(map[string]*store.Account)}
}

func (f *fakeAccounts) Create(_ context.Context, acc *store.Account) error {
	f.nextID++
	acc.ID = fmt.Sprintf("acc-%d", f.nextID)
	copied := *acc
	f.byEmail[acc.Email] = &copied
	return nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*store.Account, error) {
	acc, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return acc, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*store.Account, error) {
	for _, acc := range f.byEmail {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (f *fakeAccounts) UpdateDisplayName(_ context.Context, id, displayName string) error {
	for _, acc := range f.byEmail {
		if acc.ID == id {
			acc.DisplayName = displayName
			return nil
		}
	}
	return store.ErrAccountNotFound
}

func (f *fakeAccounts) MarkVerified(_ context.Context, id string) error {
	for _, acc := range f.byEmail {
		if acc.ID == id {
			acc.Verified = true
			return nil
		}
	}
	return store.ErrAccountNotFound
}

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestClient() (*Client, *fakeAccounts, *fakeSender) {
	accounts := newFakeAccounts()
	sender := &fakeSender{}
	c := NewClient(accounts, jwt.NewService("test-secret"), sender, logger.New())
	return c, accounts, sender
}

func TestSignUp(t *testing.T) {
	c, accounts, _ := newTestClient()

	state, err := c.SignUp(context.Background(), "Alice", " alice@example.com ", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "acc-1", state.UserID)
	assert.Equal(t, "alice@example.com", state.Email)
	assert.Equal(t, "Alice", state.DisplayName)
	assert.NotEmpty(t, state.Token)
	assert.NotNil(t, c.CurrentState())

	acc := accounts.byEmail["alice@example.com"]
	require.NotNil(t, acc)
	assert.NotEqual(t, "secret1", acc.PasswordHash)
}

func TestSignUp_Validation(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	_, err := c.SignUp(ctx, "Alice", "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = c.SignUp(ctx, "Alice", "a b@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = c.SignUp(ctx, "Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	assert.Nil(t, c.CurrentState())
}

func TestSignUp_EmailInUse(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = c.SignUp(ctx, "Mallory", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignIn(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	c.SignOut()

	state, err := c.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", state.Email)
	assert.NotNil(t, c.CurrentState())
}

func TestSignIn_WrongCredentials(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	c.SignOut()

	// Unknown account and bad password collapse to the same error.
	_, err = c.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = c.SignIn(ctx, "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, c.CurrentState())
}

func TestOnAuthStateChanged(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	var seen []*AuthState
	unsub := c.OnAuthStateChanged(func(s *AuthState) { seen = append(seen, s) })

	// Fires immediately with the current (signed-out) state.
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "alice@example.com", seen[1].Email)

	c.SignOut()
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	unsub()
	_, err = c.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestSignOut_WhileSignedOutIsNoop(t *testing.T) {
	c, _, _ := newTestClient()

	calls := 0
	c.OnAuthStateChanged(func(*AuthState) { calls++ })
	require.Equal(t, 1, calls)

	c.SignOut()
	assert.Equal(t, 1, calls)
}

func TestRestoreSession(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	state, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	token := state.Token
	c.SignOut()

	restored, err := c.RestoreSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, state.UserID, restored.UserID)
	assert.Equal(t, "alice@example.com", restored.Email)
	assert.NotNil(t, c.CurrentState())
}

func TestRestoreSession_BadToken(t *testing.T) {
	c, _, _ := newTestClient()

	_, err := c.RestoreSession(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, c.CurrentState())
}

func TestRestoreSession_DeletedAccount(t *testing.T) {
	c, accounts, _ := newTestClient()
	ctx := context.Background()

	state, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	c.SignOut()
	delete(accounts.byEmail, "alice@example.com")

	_, err = c.RestoreSession(ctx, state.Token)
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestConfirmEmailVerified(t *testing.T) {
	c, accounts, _ := newTestClient()
	ctx := context.Background()

	assert.ErrorIs(t, c.ConfirmEmailVerified(ctx), ErrNotSignedIn)

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, c.ConfirmEmailVerified(ctx))
	assert.True(t, accounts.byEmail["alice@example.com"].Verified)
}

func TestSendVerificationEmail(t *testing.T) {
	c, _, sender := newTestClient()
	ctx := context.Background()

	assert.ErrorIs(t, c.SendVerificationEmail(ctx), ErrNotSignedIn)

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, c.SendVerificationEmail(ctx))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sender.sent[0].To)
}

func TestUpdateDisplayName(t *testing.T) {
	c, accounts, _ := newTestClient()
	ctx := context.Background()

	assert.ErrorIs(t, c.UpdateDisplayName(ctx, "New Name"), ErrNotSignedIn)

	_, err := c.SignUp(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, c.UpdateDisplayName(ctx, "Alice D."))
	assert.Equal(t, "Alice D.", c.CurrentState().DisplayName)
	assert.Equal(t, "Alice D.", accounts.byEmail["alice@example.com"].DisplayName)
}
