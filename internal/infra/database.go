package infra

import (
	"fmt"

	"restopos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create/update all tables, then applies idempotent SQL patches for what
// GORM cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map driver duplicate-key errors onto gorm.ErrDuplicatedKey so
		// services can translate them into conflict responses.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Exposed separately so integration tests
// can migrate a containerized database without going through NewDatabase.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Role{},
		&model.Account{},
		&model.CashRegisterSession{},
		&model.Ticket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot
// express. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched database is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one open session per tenant. The partial unique index
		// makes the open transition an atomic check-and-insert: two
		// concurrent opens cannot both commit.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_sessions_tenant_open
		     ON cash_register_sessions (tenant_id)
		     WHERE status = 'open'`,
		// Index backing the closeout date-range scan.
		`CREATE INDEX IF NOT EXISTS idx_tickets_tenant_created
		     ON tickets (tenant_id, created_at)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
