package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/auth"
)

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Service defines business logic related to customers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Customer, error)
	Login(ctx context.Context, email, password string) (*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Customer, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrNameRequired
	}
	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	c := &Customer{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     true,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		c.Phone = &phone
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Customer, error) {
	clean := normalizeEmail(email)
	if clean == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	c, err := s.repo.GetByEmail(ctx, clean)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch customer by email: %w", err)
	}

	// Inactive accounts get the same answer as a wrong password.
	if !c.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(c.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, c.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("customer_id", c.ID), zap.Error(err))
	} else {
		c.LastLoginAt = &now
	}

	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
