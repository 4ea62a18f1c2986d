package http

import (
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/customer"
)

// RegisterRequest defines the payload for customer registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

// LoginRequest defines the payload for customer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CustomerResponse is the shape of customer data returned in API responses.
type CustomerResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Email:       c.Email,
		FullName:    c.FullName,
		Phone:       c.Phone,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		LastLoginAt: c.LastLoginAt,
	}
}

// LoginResponse returns the token and customer info.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	Customer    CustomerResponse `json:"customer"`
}

// MeResponse returns the current customer info.
type MeResponse struct {
	Customer CustomerResponse `json:"customer"`
}
