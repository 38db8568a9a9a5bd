package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/repositories"
	"acenumerik.fr/utils"

	"go.uber.org/zap"
)

// AuthServiceError is the error family of sign-in and user management.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials AuthServiceError = "e-mail ou mot de passe incorrect"
	ErrUserInactive       AuthServiceError = "ce compte est désactivé"
	ErrUserNotFound       AuthServiceError = "utilisateur introuvable"
	ErrUserInvalidInput   AuthServiceError = "données utilisateur invalides"
	ErrUserEmailTaken     AuthServiceError = "cette adresse e-mail est déjà utilisée"
	ErrUserCreationFailed AuthServiceError = "l'utilisateur n'a pas pu être créé"
	ErrTokenIssueFailed   AuthServiceError = "la session n'a pas pu être ouverte"
)

// LoginResult is returned to API clients.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// IAuthService checks credentials and issues bearer tokens.
type IAuthService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// AuthService implements IAuthService.
type AuthService struct {
	users  repositories.IUserRepository
	secret string
	ttl    time.Duration
}

// NewAuthService signs tokens with secret, valid for ttl.
func NewAuthService(users repositories.IUserRepository, secret string, ttl time.Duration) IAuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

// Authenticate returns the active user matching email and password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			configslog.SLog.Warnf("Login attempt for unknown e-mail: %s", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !utils.CheckPassword(user.Password, password) {
		configslog.SLog.Warnf("Wrong password for user %d", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	token, err := utils.GenerateToken(s.secret, user.ID, user.Role, user.Name, s.ttl, now)
	if err != nil {
		configslog.Log.Error("Token signing failed", zap.Uint("userID", user.ID), zap.Error(err))
		return nil, ErrTokenIssueFailed
	}
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.ttl), User: user}, nil
}

// NewUser is the admin form for a back-office account.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// IUserService manages back-office accounts.
type IUserService interface {
	List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, creatorID uint, input NewUser) (*models.User, error)
	SetActive(ctx context.Context, userID, id uint, active bool) error
}

// UserService implements IUserService.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService wires the service.
func NewUserService(repo repositories.IUserRepository) IUserService {
	return &UserService{repo: repo}
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	users, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(users, total, params), nil
}

// Get returns ErrUserNotFound for unknown ids.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create validates the input, rejects taken emails and hashes the password.
func (s *UserService) Create(ctx context.Context, creatorID uint, input NewUser) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	role := accesscontrol.Role(input.Role)
	if input.Name == "" || input.Email == "" || !role.Valid() {
		return nil, ErrUserInvalidInput
	}
	if len(input.Password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("%w: le mot de passe doit contenir au moins %d caractères", ErrUserInvalidInput, utils.MinPasswordLength)
	}
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrUserEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCreationFailed, err)
	}
	user := &models.User{Name: input.Name, Email: input.Email, Password: hash, Role: string(role), IsActive: true}
	if err := s.repo.Create(models.WithUserID(ctx, creatorID), user); err != nil {
		configslog.Log.Error("User create failed", zap.String("email", input.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUserCreationFailed, err)
	}
	return user, nil
}

// SetActive enables or disables an account. Disabled accounts cannot sign in.
func (s *UserService) SetActive(ctx context.Context, userID, id uint, active bool) error {
	if userID == id && !active {
		return fmt.Errorf("%w: impossible de désactiver son propre compte", ErrUserInvalidInput)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = active
	return s.repo.Update(models.WithUserID(ctx, userID), user)
}
