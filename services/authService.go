package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
)

const invalidCredentials = "Incorrect email or password"

type SignUpInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users  repositories.UserRepository
	tokens *helper.TokenManager
	policy AdminPolicy
	logger zerolog.Logger
}

func NewAuthService(users repositories.UserRepository, tokens *helper.TokenManager, policy AdminPolicy, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		policy: policy,
		logger: logger.With().Str("component", "auth_service").Logger(),
	}
}

// SignUp registers a new account. A second registration with the same
// email fails with a conflict.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("User already registered")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeError(err, "User")
	}

	hash, err := helper.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Storage("Could not create user", err)
	}

	user := models.NewUser(in.Name, in.Email, hash)
	if s.policy.IsAdminEmail(user.Email) {
		user.Role = models.RoleAdmin
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("User already registered")
		}
		return nil, storeError(err, "User")
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown emails
// and wrong passwords produce the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, storeError(err, "User")
	}

	if !helper.VerifyPassword(user.Password, in.Password) {
		s.logger.Debug().Str("user_id", user.ID.Hex()).Msg("login rejected: wrong password")
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.Email, user.ID.Hex())
	if err != nil {
		return nil, apperror.Storage("Could not issue token", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}
