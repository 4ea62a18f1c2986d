package customer

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "customer not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "full name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

const MinPasswordLength = 8

// Customer is an account that books partners.
type Customer struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
