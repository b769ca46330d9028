package user

import (
	"fmt"
	"time"

	userRepo "chargebay/database/repository/user"
	"chargebay/models"
	"chargebay/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 24 * time.Hour

// AuthResult bundles the issued token with the public user record.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService covers the minimal account surface: registration and login.
// Profile management beyond that lives outside this service.
type UserService interface {
	Register(in RegisterInput) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	GetByID(id string) (*models.User, error)
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// DefaultUserService is the standard implementation of UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates an account and issues a token carrying the role claim.
func (s *DefaultUserService) Register(in RegisterInput) (*AuthResult, error) {
	if in.Role != models.RoleEVOwner && in.Role != models.RoleStationOwner {
		return nil, ValidationError{Message: "role must be ev_owner or station_owner"}
	}
	if len(in.Password) < 6 {
		return nil, ValidationError{Message: "password must be at least 6 characters"}
	}

	existing, err := s.Repo.GetByEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	usr := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(usr); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.Logger.Info("user registered", zap.String("user", usr.ID), zap.String("role", usr.Role))
	return &AuthResult{Token: token, User: usr}, nil
}

// Login verifies credentials and issues a token.
func (s *DefaultUserService) Login(email, password string) (*AuthResult, error) {
	usr, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if usr == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: usr}, nil
}

// GetByID fetches one user record.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	return s.Repo.GetByID(id)
}
