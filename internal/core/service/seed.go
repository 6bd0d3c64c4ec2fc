package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     domain.Role
}

var demoUsers = []seedUser{
	{"manager@fleetflow.com", "manager123", "Fleet Manager", domain.RoleManager},
	{"dispatcher@fleetflow.com", "dispatch123", "Sarah Dispatcher", domain.RoleDispatcher},
	{"safety@fleetflow.com", "safety123", "Safety Officer", domain.RoleSafety},
	{"finance@fleetflow.com", "finance123", "Finance Analyst", domain.RoleFinance},
}

// SeedDemoUsers creates the well-known demo accounts when they do not exist
// yet. Intended for development environments only; it is idempotent.
func SeedDemoUsers(ctx context.Context, repo ports.AuthRepository) error {
	now := time.Now().UTC()
	for _, su := range demoUsers {
		if _, err := repo.FindByEmail(ctx, su.email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed lookup %s: %w", su.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, &domain.User{
			Email:        su.email,
			Name:         su.name,
			PasswordHash: string(hash),
			Role:         su.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("seed create %s: %w", su.email, err)
		}
	}
	return nil
}
