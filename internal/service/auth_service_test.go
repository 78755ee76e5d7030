package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/config"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
	"alumniconnect/internal/repository/memory"
	"alumniconnect/internal/security"
)

var fastParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func newAuthService(t *testing.T, maxSessions int) (*AuthService, repository.Stores) {
	t.Helper()
	stores := memory.NewStores(memory.New())
	svc := NewAuthService(stores.Users, stores.Sessions, config.SecurityConfig{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		CookieName:    "alumni_session",
		MaxSessions:   maxSessions,
	}, zerolog.Nop(), WithPasswordParams(fastParams))
	// Token expiry is checked against the wall clock, so start from it.
	clock := &stepClock{t: time.Now().UTC()}
	svc.now = clock.Now
	return svc, stores
}

func register(t *testing.T, svc *AuthService, username string) AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@Example.com",
		Password: "correct horse",
		FullName: "Test " + username,
		College:  "MIT",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterDefaultsAndDuplicates(t *testing.T) {
	svc, _ := newAuthService(t, 0)
	ctx := context.Background()

	result := register(t, svc, "ada")
	assert.Equal(t, models.UserRoleStudent, result.User.Role)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.NotEqual(t, "correct horse", string(result.User.PasswordHash))

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "other@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "User already exists", err.Error())
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Username: "ada2", Email: "ADA@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "User already exists", err.Error())

	_, err = svc.Register(ctx, RegisterInput{Username: "", Email: "e@example.com", Password: "x"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t, 0)
	ctx := context.Background()
	registered := register(t, svc, "grace")

	_, err := svc.Login(ctx, LoginInput{Username: "grace", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "correct horse"})
	assert.Equal(t, "Invalid credentials", err.Error())

	login, err := svc.Login(ctx, LoginInput{Username: "grace", Password: "correct horse", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, login.User.ID)
	assert.NotEqual(t, registered.Session.ID, login.Session.ID)

	user, session, err := svc.Authenticate(ctx, login.Token, "10.0.0.2", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Equal(t, login.Session.ID, session.ID)

	_, _, err = svc.Authenticate(ctx, "not-a-token", "", "")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestAuthenticateRejectsExpiredAndLoggedOutSessions(t *testing.T) {
	svc, stores := newAuthService(t, 0)
	ctx := context.Background()
	result := register(t, svc, "linus")

	require.NoError(t, svc.Logout(ctx, result.Session.ID))
	require.NoError(t, svc.Logout(ctx, result.Session.ID))
	_, _, err := svc.Authenticate(ctx, result.Token, "", "")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	login, err := svc.Login(ctx, LoginInput{Username: "linus", Password: "correct horse"})
	require.NoError(t, err)

	later := time.Now().UTC().Add(2 * time.Hour)
	svc.now = func() time.Time { return later }
	_, _, err = svc.Authenticate(ctx, login.Token, "", "")
	require.Error(t, err)
	assert.Equal(t, "Session expired", err.Error())

	_, err = stores.Sessions.GetByID(ctx, login.Session.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionLimitEvictsOldest(t *testing.T) {
	svc, _ := newAuthService(t, 2)
	ctx := context.Background()
	first := register(t, svc, "barbara")

	var last AuthResult
	for i := 0; i < 2; i++ {
		var err error
		last, err = svc.Login(ctx, LoginInput{Username: "barbara", Password: "correct horse"})
		require.NoError(t, err)
	}

	sessions, err := svc.Sessions(ctx, first.User.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, last.Session.ID, sessions[0].ID)

	_, _, err = svc.Authenticate(ctx, first.Token, "", "")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestRevokeSession(t *testing.T) {
	svc, _ := newAuthService(t, 0)
	ctx := context.Background()
	first := register(t, svc, "ken")
	second, err := svc.Login(ctx, LoginInput{Username: "ken", Password: "correct horse"})
	require.NoError(t, err)
	other := register(t, svc, "dennis")

	err = svc.RevokeSession(ctx, first.User.ID, second.Session.ID, second.Session.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	err = svc.RevokeSession(ctx, first.User.ID, second.Session.ID, other.Session.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	require.NoError(t, svc.RevokeSession(ctx, first.User.ID, second.Session.ID, first.Session.ID))
	_, _, err = svc.Authenticate(ctx, first.Token, "", "")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}
