package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storelane/catalog_api/internal/models"
	"github.com/storelane/catalog_api/internal/utils"
)

type stubUserRepo struct {
	usersByEmail map[string]*models.User
	created      []*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{usersByEmail: map[string]*models.User{}}
}

func (s *stubUserRepo) Create(ctx context.Context, u *models.User) error {
	s.usersByEmail[u.Email] = u
	s.created = append(s.created, u)
	return nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.usersByEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestRegister(t *testing.T) {
	t.Run("rejects blank fields", func(t *testing.T) {
		svc := NewAuthService(newStubUserRepo())
		_, err := svc.Register(context.Background(), "", "a@b.com", "pw")
		assert.ErrorIs(t, err, utils.ErrValidation)
		_, err = svc.Register(context.Background(), "ana", "", "pw")
		assert.ErrorIs(t, err, utils.ErrValidation)
		_, err = svc.Register(context.Background(), "ana", "a@b.com", "")
		assert.ErrorIs(t, err, utils.ErrValidation)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := NewAuthService(repo)

		_, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "other", "ana@example.com", "secret")
		assert.ErrorIs(t, err, utils.ErrUserExists)
	})

	t.Run("hashes the password", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := NewAuthService(repo)

		user, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret")
		require.NoError(t, err)

		assert.NotEqual(t, "secret", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
		assert.False(t, user.IsAdmin)
	})
}

func TestLogin(t *testing.T) {
	utils.InitJWT("test-secret")

	setup := func(t *testing.T) (*AuthService, *stubUserRepo) {
		t.Helper()
		repo := newStubUserRepo()
		svc := NewAuthService(repo)
		_, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret")
		require.NoError(t, err)
		return svc, repo
	}

	t.Run("unknown email fails with invalid credentials", func(t *testing.T) {
		svc, _ := setup(t)
		_, _, err := svc.Login(context.Background(), "ghost@example.com", "secret")
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("wrong password fails with invalid credentials", func(t *testing.T) {
		svc, _ := setup(t)
		_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("issues a token carrying the user identity", func(t *testing.T) {
		svc, _ := setup(t)
		token, user, err := svc.Login(context.Background(), "ana@example.com", "secret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := utils.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.False(t, claims.IsAdmin)
	})
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("no-op when credentials are not configured", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := NewAuthService(repo)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", ""))
		assert.Empty(t, repo.created)
	})

	t.Run("creates the admin account once", func(t *testing.T) {
		repo := newStubUserRepo()
		svc := NewAuthService(repo)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "hunter2"))
		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "hunter2"))

		require.Len(t, repo.created, 1)
		admin := repo.created[0]
		assert.Equal(t, "admin", admin.Username)
		assert.True(t, admin.IsAdmin)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("hunter2")))
	})
}
