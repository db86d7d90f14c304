package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tourbooking/internal/auth"
	"tourbooking/internal/domain"
	staffrepo "tourbooking/internal/repository/staff"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the bearer token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

const defaultRole = "agent"

// Service handles back-office sign in.
type Service struct {
	repo        staffrepo.Repository
	tokens      *auth.Service
	passwordMin int
}

func New(repo staffrepo.Repository, tokens *auth.Service) *Service {
	return &Service{repo: repo, tokens: tokens, passwordMin: 8}
}

// RegisterInput captures a new staff account.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Staff, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = defaultRole
	}
	return s.repo.Create(ctx, domain.Staff{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hashed),
		Role:         role,
	})
}

// LoginResult is returned on successful sign in.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Staff     *domain.Staff `json:"staff"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	password = strings.TrimSpace(password)
	st, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.GenerateToken(st.ID, st.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expires, Staff: st}, nil
}

// Authenticate returns the staff member behind a bearer token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Staff, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	st, err := s.repo.GetByID(ctx, claims.StaffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return st, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasLetter := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least 1 letter and 1 number")
	}
	return nil
}
