package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/prospect-crm/internal/auth"
	"github.com/octobees/prospect-crm/internal/entity"
	"github.com/octobees/prospect-crm/internal/repository"
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Session is an issued access token together with the identity it carries.
// Actor is the value stamped on history entries written with the token.
type Session struct {
	Token string
	Role  string
	Actor string
}

// AuthService coordinates credential validation and token issuance.
type AuthService struct {
	users   repository.UsersRepository
	jwt     *auth.JWTManager
	contact *ContactNormalizer
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, contact: NewContactNormalizer("")}
}

// Login checks the credentials of an existing user. Emails match
// case-insensitively.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Session{}, ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return Session{}, ValidationError{Field: "password", Message: "password is required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Register creates a sales user with a normalized email and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password string) (Session, error) {
	normalized, err := s.contact.Email(email)
	if err != nil {
		return Session{}, err
	}
	if normalized == "" {
		return Session{}, ValidationError{Field: "email", Message: "email is required"}
	}
	if len(password) < MinPasswordLength {
		return Session{}, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, normalized, string(hashed), entity.RoleSales)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return Session{}, ErrEmailAlreadyExists
		}
		return Session{}, err
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *entity.User) (Session, error) {
	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return Session{}, err
	}
	actor := user.Email
	if actor == "" {
		actor = user.ID.String()
	}
	return Session{Token: token, Role: user.Role, Actor: actor}, nil
}
