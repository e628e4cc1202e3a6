package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/invoicedash/internal/domain"
	"github.com/totegamma/invoicedash/internal/infra/database"
	"github.com/totegamma/invoicedash/internal/infra/database/models"
)

type CustomerRepository struct {
	provider database.Provider
}

func NewCustomerRepository(provider database.Provider) *CustomerRepository {
	return &CustomerRepository{provider: provider}
}

// Options lists customers for the invoice form's select, by name.
func (r *CustomerRepository) Options(ctx context.Context) ([]domain.CustomerOption, error) {
	var rows []models.Customer
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT id, name FROM customers ORDER BY name ASC").Scan(&rows).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}

	options := make([]domain.CustomerOption, 0, len(rows))
	for _, row := range rows {
		options = append(options, domain.CustomerOption{ID: row.ID, Name: row.Name})
	}
	return options, nil
}

func (r *CustomerRepository) Revenue(ctx context.Context) ([]domain.Revenue, error) {
	var rows []models.Revenue
	err := r.provider.WithConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT month, revenue FROM revenue").Scan(&rows).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "list revenue")
	}

	revenue := make([]domain.Revenue, 0, len(rows))
	for _, row := range rows {
		revenue = append(revenue, domain.Revenue{Month: row.Month, Revenue: row.Revenue})
	}
	return revenue, nil
}
