package ports

import (
	"context"

	"github.com/fleetflow/fleet-api/internal/core/domain"
)

// LoginResult carries the signed token and the public view of the account.
type LoginResult struct {
	Token     string
	ExpiresIn int64 // seconds
	User      *domain.User
}

// AuthService authenticates accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
