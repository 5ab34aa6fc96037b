package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Provider reads shipment history and reduces it to the rows consumed by the analytics package.
type Provider struct {
	db *gorm.DB
}

// zerologWriter routes gorm's logger to zerolog so nothing reaches stdout.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...any) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}

// Open connects to the database with the given driver and DSN.
func Open(driver, dsn string) (*Provider, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zerologWriter{}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Debug().Str("driver", driver).Msg("Database connection opened")
	return &Provider{db: db}, nil
}

// NewProvider wraps an existing gorm handle.
func NewProvider(db *gorm.DB) *Provider {
	return &Provider{db: db}
}

// Migrate creates or updates the schema.
func (p *Provider) Migrate(ctx context.Context) error {
	if err := p.db.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (p *Provider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Provider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
