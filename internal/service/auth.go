package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tuannm151/sweetshop/internal/apperr"
	"github.com/tuannm151/sweetshop/internal/auth"
	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/repository"
)

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	// Register creates a new non-admin account and returns its id.
	Register(ctx context.Context, params RegisterParams) (int64, error)
	// Login verifies credentials and mints a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// ResolvePrincipal verifies a bearer token and re-resolves the user it
	// names. Both the id and the username in the claims must match a row,
	// so a token minted before a username change stops working.
	ResolvePrincipal(ctx context.Context, tokenString string) (model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokenSvc *auth.TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokenSvc *auth.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (int64, error) {
	if _, err := s.userRepo.GetUserByUsername(ctx, params.Username); err == nil {
		return 0, apperr.UsernameTakenErr
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, fmt.Errorf("get user by username: %w", err)
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return 0, apperr.EmailTakenErr
	} else if !errors.Is(err, repository.ErrNotFound) {
		return 0, fmt.Errorf("get user by email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(params.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:       params.Username,
		Email:          params.Email,
		HashedPassword: hashedPassword,
		IsAdmin:        false,
	})
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error as a wrong password so the response does not
			// reveal whether the username exists.
			return "", apperr.InvalidCredentialsErr
		}
		return "", fmt.Errorf("get user by username: %w", err)
	}

	if !auth.VerifyPassword(user.HashedPassword, password) {
		return "", apperr.InvalidCredentialsErr
	}

	token, err := s.tokenSvc.Issue(user.Username, user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

func (s *authService) ResolvePrincipal(ctx context.Context, tokenString string) (model.User, error) {
	claims, err := s.tokenSvc.Verify(tokenString)
	if err != nil {
		return model.User{}, apperr.UnauthenticatedErr
	}

	user, err := s.userRepo.GetUserByIDAndUsername(ctx, claims.UserID, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The token parsed but no longer names an existing user.
			// Treat it exactly like an invalid token.
			return model.User{}, apperr.UnauthenticatedErr
		}
		return model.User{}, fmt.Errorf("get user by id and username: %w", err)
	}

	return user, nil
}
