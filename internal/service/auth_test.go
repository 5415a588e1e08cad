package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/auth"
	"github.com/tuannm151/sweetshop/internal/config"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/service"
	"github.com/tuannm151/sweetshop/internal/storage/db"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]model.User{}}
}

func (r *fakeUserRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r *fakeUserRepo) CreateUser(_ context.Context, params repository.CreateUserParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.users[r.nextID] = model.User{
		ID:             r.nextID,
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: params.HashedPassword,
		IsAdmin:        params.IsAdmin,
	}
	return r.nextID, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *fakeUserRepo) GetUserByIDAndUsername(_ context.Context, id int64, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || user.Username != username {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) rename(id int64, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.users[id]
	user.Username = username
	r.users[id] = user
}

func newAuthService(t *testing.T) (service.AuthService, *fakeUserRepo) {
	t.Helper()

	tokenSvc, err := auth.NewTokenService(config.Auth{
		SecretKey: "test-secret-key",
		Algorithm: config.SigningAlgHS256,
		TokenTTL:  time.Minute,
	})
	require.NoError(t, err)

	repo := newFakeUserRepo()
	return service.NewAuthService(repo, tokenSvc), repo
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Should register and then login with the same password", func(t *testing.T) {
		svc, repo := newAuthService(t)

		id, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		token, err := svc.Login(ctx, "bob", "bobpass")
		require.NoError(t, err)

		principal, err := svc.ResolvePrincipal(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, id, principal.ID)

		stored, err := repo.GetUserByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.NotEqual(t, "bobpass", stored.HashedPassword)
	})

	t.Run("Should never create admins", func(t *testing.T) {
		svc, repo := newAuthService(t)

		id, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)

		user, err := repo.GetUserByIDAndUsername(ctx, id, "bob")
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})

	t.Run("Should reject duplicate username even with different email", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)

		_, err = svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "other@example.com",
			Password: "otherpass",
		})
		assert.ErrorIs(t, err, apperr.UsernameTakenErr)
	})

	t.Run("Should reject duplicate email", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)

		_, err = svc.Register(ctx, service.RegisterParams{
			Username: "alice",
			Email:    "bob@example.com",
			Password: "alicepass",
		})
		assert.ErrorIs(t, err, apperr.EmailTakenErr)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the same error for unknown user and wrong password", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)

		_, unknownErr := svc.Login(ctx, "nobody", "bobpass")
		_, wrongPassErr := svc.Login(ctx, "bob", "wrongpass")

		assert.ErrorIs(t, unknownErr, apperr.InvalidCredentialsErr)
		assert.ErrorIs(t, wrongPassErr, apperr.InvalidCredentialsErr)
		assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
	})
}

func TestAuthServiceResolvePrincipal(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject garbage tokens", func(t *testing.T) {
		svc, _ := newAuthService(t)

		_, err := svc.ResolvePrincipal(ctx, "garbage")
		assert.ErrorIs(t, err, apperr.UnauthenticatedErr)
	})

	t.Run("Should reject a token minted before a username change", func(t *testing.T) {
		svc, repo := newAuthService(t)

		id, err := svc.Register(ctx, service.RegisterParams{
			Username: "bob",
			Email:    "bob@example.com",
			Password: "bobpass",
		})
		require.NoError(t, err)

		token, err := svc.Login(ctx, "bob", "bobpass")
		require.NoError(t, err)

		repo.rename(id, "robert")

		_, err = svc.ResolvePrincipal(ctx, token)
		assert.ErrorIs(t, err, apperr.UnauthenticatedErr)
	})
}
