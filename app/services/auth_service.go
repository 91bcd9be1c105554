package services

import (
	"context"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/validate"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the signin payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles registration and login, issuing JWTs for the checkout
// routes that need an authenticated buyer.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new user with a bcrypt-hashed password and returns it
// with a signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, "", apperr.ValidationFields(errs)
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", apperr.Repository(err)
	}
	if existing != nil {
		return nil, "", apperr.Validation("email is already registered")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Repository(err)
	}

	user := &models.User{Name: in.Name, Email: in.Email, Password: hashed, Role: "user"}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", apperr.Repository(err)
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", apperr.Repository(err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, "", apperr.ValidationFields(errs)
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", apperr.Repository(err)
	}
	if user == nil || !auth.CheckPassword(user.Password, in.Password) {
		return nil, "", apperr.Validation("invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", apperr.Repository(err)
	}
	return user, token, nil
}
