package identity

import (
	"context"
	"errors"
	"testing"

	"codeshareforum/internal/entity"
	"codeshareforum/pkg/jwt"
	"codeshareforum/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	created []*entity.User
	err     error
}

func (f *fakeProfiles) Create(_ context.Context, user *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, user)
	return nil
}

func newTestService() (*Service, *fakeProfiles, *fakeSender) {
	accounts := newFakeAccounts()
	sender := &fakeSender{}
	client := NewClient(accounts, jwt.NewService("test-secret"), sender, logger.New())
	profiles := &fakeProfiles{}
	return NewService(client, profiles, logger.New()), profiles, sender
}

func TestRegister(t *testing.T) {
	svc, profiles, sender := newTestService()

	state, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", state.Email)
	assert.Len(t, sender.sent, 1)

	require.Len(t, profiles.created, 1)
	profile := profiles.created[0]
	assert.Equal(t, state.UserID, profile.ID)
	assert.Equal(t, "Alice", profile.Username)
	assert.Equal(t, entity.RoleUser, profile.Role)
	assert.False(t, profile.Disabled)
	assert.True(t, profile.NeedsProfileSetup)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, profiles, _ := newTestService()
	ctx := context.Background()

	for _, in := range [][3]string{
		{"", "alice@example.com", "secret1"},
		{"Alice", "", "secret1"},
		{"Alice", "alice@example.com", ""},
	} {
		_, err := svc.Register(ctx, in[0], in[1], in[2])
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Empty(t, profiles.created)
}

func TestRegister_MailFailureIsNotFatal(t *testing.T) {
	svc, profiles, sender := newTestService()
	sender.err = errors.New("smtp down")

	state, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")

	require.NoError(t, err)
	assert.NotNil(t, state)
	assert.Len(t, profiles.created, 1)
}

func TestRegister_ProfileWriteFailureIsNotFatal(t *testing.T) {
	svc, profiles, _ := newTestService()
	profiles.err = errors.New("store down")

	state, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")

	require.NoError(t, err)
	assert.NotNil(t, svc.Client().CurrentState())
	assert.Equal(t, "alice@example.com", state.Email)
}

func TestLoginLogout(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	svc.Logout()
	require.Nil(t, svc.Client().CurrentState())

	state, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", state.Email)

	svc.Logout()
	assert.Nil(t, svc.Client().CurrentState())
}
