package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/models"
)

func newUserFixture() (*db.MemoryStore, *fakeAuth, *SessionBroker, UserService) {
	store := db.NewMemoryStore()
	auth := newFakeAuth()
	broker := NewSessionBroker(zap.NewNop())
	return store, auth, broker, NewUserService(store.Users(), auth, broker, zap.NewNop())
}

func TestRegister(t *testing.T) {
	store, auth, _, svc := newUserFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@campus.edu", Password: "12345"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, models.RegisterRequest{Email: "not-an-email", Password: "123456"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, auth.created)

	user, err := svc.Register(ctx, models.RegisterRequest{Email: "a@campus.edu", Password: "123456", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "uid-a@campus.edu", user.ID)

	mirrored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", mirrored.Name)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "a@campus.edu", Password: "123456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_AuthUnavailable(t *testing.T) {
	store := db.NewMemoryStore()
	svc := NewUserService(store.Users(), nil, NewSessionBroker(zap.NewNop()), zap.NewNop())

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@campus.edu", Password: "123456"})
	assert.ErrorIs(t, err, ErrAuthUnavailable)
	assert.ErrorIs(t, svc.SignOut(context.Background(), "a"), ErrAuthUnavailable)
}

func TestInitializeUser_MirrorsOnce(t *testing.T) {
	_, _, _, svc := newUserFixture()
	ctx := context.Background()
	p := models.Principal{UID: "u1", Email: "u1@campus.edu", Picture: "https://pic"}

	user, created, err := svc.InitializeUser(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "u1@campus.edu", user.Name)
	assert.Equal(t, "https://pic", user.ProfileImage)

	p.Name = "Renamed"
	again, created, err := svc.InitializeUser(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "u1@campus.edu", again.Name)

	got, err := svc.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@campus.edu", got.Email)
}

func TestInitializeUser_AnonymousNotMirrored(t *testing.T) {
	store, _, _, svc := newUserFixture()
	ctx := context.Background()

	user, created, err := svc.InitializeUser(ctx, models.Principal{UID: "anon", Anonymous: true})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, created)

	_, err = store.Users().GetByID(ctx, "anon")
	assert.ErrorIs(t, err, db.ErrNotFound)
	_, err = svc.GetByID(ctx, "anon")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignOut_RevokesAndNotifies(t *testing.T) {
	_, auth, broker, svc := newUserFixture()
	ctx := context.Background()

	events, unsubscribe := broker.Subscribe("u1")
	defer unsubscribe()

	_, _, err := svc.InitializeUser(ctx, models.Principal{UID: "u1", Email: "u1@campus.edu"})
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, "u1"))
	assert.Equal(t, []string{"u1"}, auth.revoked)

	assert.Equal(t, models.SessionSignedIn, receive(t, events).Type)
	assert.Equal(t, models.SessionSignedOut, receive(t, events).Type)

	auth.err = errors.New("auth backend down")
	assert.ErrorContains(t, svc.SignOut(ctx, "u1"), "auth backend down")
}

func receive(t *testing.T, ch <-chan models.SessionEvent) models.SessionEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session event")
		return models.SessionEvent{}
	}
}
