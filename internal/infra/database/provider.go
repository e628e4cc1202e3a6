package database

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider hands out a connection scoped to a single operation. The
// connection is released when fn returns, whatever the outcome.
type Provider interface {
	WithConn(ctx context.Context, fn func(db *gorm.DB) error) error
}

// DialProvider opens a new connection for every call and closes it
// afterwards. There is no pooling.
type DialProvider struct {
	dsn  string
	open func(dsn string) (*gorm.DB, error)
}

func NewDialProvider(dsn string) *DialProvider {
	return &DialProvider{dsn: dsn, open: NewPostgres}
}

func (p *DialProvider) WithConn(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, err := p.open(p.dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	sqlDB.SetMaxOpenConns(1)
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.WarnContext(
				ctx, "failed to close connection",
				slog.String("error", cerr.Error()),
				slog.String("module", "database"),
			)
		}
	}()

	return fn(db.WithContext(ctx))
}

// PoolProvider shares one pooled *gorm.DB between calls.
type PoolProvider struct {
	db *gorm.DB
}

func NewPoolProvider(db *gorm.DB) *PoolProvider {
	return &PoolProvider{db: db}
}

func (p *PoolProvider) WithConn(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(p.db.WithContext(ctx))
}
