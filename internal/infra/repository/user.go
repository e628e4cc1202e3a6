package repository

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/infra/database"
	"github.com/totegamma/invoicedash/internal/infra/database/models"
)

type UserRepository struct {
	provider database.Provider
}

func NewUserRepository(provider database.Provider) *UserRepository {
	return &UserRepository{provider: provider}
}

// GetUser returns the user registered under email, or nil when there is none.
// A store failure comes back as domain.ErrFetchUser.
func (r *UserRepository) GetUser(ctx context.Context, email string) (*domain.User, error) {
	var rows []models.User
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT id, name, email, password FROM users WHERE email = ?", email).
			Scan(&rows).Error
	})
	if err != nil {
		slog.ErrorContext(
			ctx, "Failed to fetch user",
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchUser, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	u := rows[0]
	return &domain.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}, nil
}
