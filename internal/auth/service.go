package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("missing required fields")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an operator account. The first consumer of this
// tool is a single owner; additional bookkeeper accounts default to
// the restricted role.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*Account, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if role != RoleOwner {
		role = RoleBookkeeper
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Save(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(acct.PasswordHash),
		[]byte(password),
	); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(acct)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}
