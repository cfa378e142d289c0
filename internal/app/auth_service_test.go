package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookshelf/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	getByTokenFn func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn     func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	var createdUsername, createdHash string
	var sessionUserID int64

	users := &mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			createdUsername, createdHash = username, passwordHash
			return &domain.User{ID: 7, Username: username, PasswordHash: passwordHash}, nil
		},
	}
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
			sessionUserID = userID
			return nil
		},
	}

	svc := NewAuthService(users, sessions)
	token, err := svc.Register(context.Background(), "  alice  ", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", createdUsername, "username is trimmed before storage")
	assert.Equal(t, int64(7), sessionUserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdHash), []byte("secret")))
}

func TestRegisterRejectsMissingCredentials(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			t.Fatal("no user row may be created")
			return nil, nil
		},
	}, &mockSessionRepo{})

	for _, tc := range []struct{ username, password string }{
		{"", "secret"},
		{"   ", "secret"},
		{"alice", ""},
	} {
		_, err := svc.Register(context.Background(), tc.username, tc.password)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash := hashOf(t, "right")
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if username == "alice" {
				return &domain.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
			}
			return nil, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, wrongPassword := svc.Login(context.Background(), "alice", "wrong")
	_, unknownUser := svc.Login(context.Background(), "nobody", "right")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginSuccess(t *testing.T) {
	hash := hashOf(t, "secret")
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	token, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginRejectsSSOProvisionedAccount(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "sso-user", PasswordHash: ""}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), "sso-user", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateSessionExpired(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(ctx context.Context, token string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	_, err := svc.ValidateSession(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, deleted, "expired session is removed")
}

func TestValidateSessionUnknownToken(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{})

	_, err := svc.ValidateSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoginWithUserProvisionsOnce(t *testing.T) {
	created := 0
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if created > 0 {
				return &domain.User{ID: 1, Username: username}, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			created++
			assert.Empty(t, passwordHash, "SSO accounts carry no password hash")
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{})

	_, err := svc.LoginWithUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	_, err = svc.LoginWithUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestLoginWithUserProvisioningRace(t *testing.T) {
	existing := &domain.User{ID: 9, Username: "alice@example.com"}
	calls := 0
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			calls++
			if calls == 1 {
				return nil, nil
			}
			return existing, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	var sessionUserID int64
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
			sessionUserID = userID
			return nil
		},
	}
	svc := NewAuthService(users, sessions)

	_, err := svc.LoginWithUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, sessionUserID)
}

func TestLogoutDeletesSession(t *testing.T) {
	var deletedToken string
	sessions := &mockSessionRepo{
		deleteFn: func(ctx context.Context, token string) error {
			deletedToken = token
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.Equal(t, "tok", deletedToken)
}

func TestRegisterSessionCreateFailure(t *testing.T) {
	boom := errors.New("db down")
	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
			return boom
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions)

	_, err := svc.Register(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, boom)
}
