package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/storage/db"
)

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	IsAdmin        bool
}

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	CreateUser(ctx context.Context, params CreateUserParams) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	// GetUserByIDAndUsername resolves a user only when both the id and the
	// username match, which invalidates tokens minted before a rename.
	GetUserByIDAndUsername(ctx context.Context, id int64, username string) (model.User, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{db: db}
}

func (r userRepository) CreateUser(ctx context.Context, params CreateUserParams) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password, is_admin)
		VALUES (@username, @email, @hashed_password, @is_admin)
		RETURNING id
	`, pgx.NamedArgs{
		"username":        params.Username,
		"email":           params.Email,
		"hashed_password": params.HashedPassword,
		"is_admin":        params.IsAdmin,
	}).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (r userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, `
		SELECT id, username, email, hashed_password, is_admin
		FROM users
		WHERE username = @username
	`, pgx.NamedArgs{"username": username})
}

func (r userRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, `
		SELECT id, username, email, hashed_password, is_admin
		FROM users
		WHERE email = @email
	`, pgx.NamedArgs{"email": email})
}

func (r userRepository) GetUserByIDAndUsername(ctx context.Context, id int64, username string) (model.User, error) {
	return r.getUser(ctx, `
		SELECT id, username, email, hashed_password, is_admin
		FROM users
		WHERE id = @id AND username = @username
	`, pgx.NamedArgs{"id": id, "username": username})
}

func (r userRepository) getUser(ctx context.Context, query string, args pgx.NamedArgs) (model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, query, args).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
