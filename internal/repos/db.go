package repos

import (
	"context"
	"embed"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"storefront/internal/docstore"
	"storefront/internal/domain"
	applog "storefront/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and FS in package globals.
var migrateMu sync.Mutex

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: a :memory: database exists per connection, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(applog.Migrations{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

// SeedIfEmpty inserts demo categories and products when the catalog is empty.
func SeedIfEmpty(ctx context.Context, store docstore.Store) error {
	products := NewProductRepo(store)
	n, err := products.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	applog.Info(nil, "seed.catalog", nil)

	cats := NewCategoryRepo(store)
	consoles, err := cats.Create(ctx, domain.Category{Name: "Consoles", Icon: "gamepad", Color: "#4F46E5"})
	if err != nil {
		return err
	}
	radios, err := cats.Create(ctx, domain.Category{Name: "Radios", Icon: "radio", Color: "#B45309"})
	if err != nil {
		return err
	}

	seed := []domain.Product{
		{Name: "Game Boy Color", Description: "Handheld console", Brand: "Nintendo",
			Price: decimal.RequireFromString("129.99"), Category: consoles.ID, CountInStock: 8,
			Rating: decimal.NewFromInt(4), NumReviews: 12, IsFeatured: true},
		{Name: "NES Console", Description: "Classic 8-bit console", Brand: "Nintendo",
			Price: decimal.RequireFromString("199.00"), Category: consoles.ID, CountInStock: 5,
			Rating: decimal.RequireFromString("4.5"), NumReviews: 30},
		{Name: "Philco 1939", Description: "Vintage vacuum tube radio", Brand: "Philco",
			Price: decimal.RequireFromString("349.50"), Category: radios.ID, CountInStock: 2,
			Rating: decimal.NewFromInt(5), NumReviews: 3, IsFeatured: true},
	}
	for _, p := range seed {
		if _, err := products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
