package postgres

import (
	"fmt"
	"net"
	"net/url"

	"backoffice/internal/adapters/out/postgres/analyticsrepo"
	"backoffice/internal/adapters/out/postgres/ratingrepo"

	"github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionSettings describes how to reach the database. Schema is optional
// and becomes the connection's search_path.
type ConnectionSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Schema   string
}

// DSN renders the settings as a postgres:// URL. Credentials and names are
// escaped, so they may contain spaces, quotes or '@'.
func (s ConnectionSettings) DSN() string {
	sslMode := s.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	params := url.Values{}
	params.Set("sslmode", sslMode)
	if s.Schema != "" {
		params.Set("search_path", pq.QuoteIdentifier(s.Schema))
	}

	dsn := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(s.Host, s.Port),
		Path:     "/" + s.DBName,
		RawQuery: params.Encode(),
	}
	if s.User != "" {
		dsn.User = url.UserPassword(s.User, s.Password)
	}
	return dsn.String()
}

// Open connects to the database. GORM's own logger is kept at warn level;
// slow or failing statements still surface.
func Open(settings ConnectionSettings) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(settings.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service reads or writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&analyticsrepo.OrderDTO{},
		&analyticsrepo.OrderLineDTO{},
		&analyticsrepo.BillDTO{},
		&analyticsrepo.TableDTO{},
		&ratingrepo.MenuItemDTO{},
		&ratingrepo.ItemReviewDTO{},
	)
}
