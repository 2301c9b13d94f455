package database

import (
	"presupuesto-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for the models this service owns. Catalog
// tables (areas, chapters, ceilings, requisitions) are owned by the catalog
// and procurement services; they are migrated here only so fresh dev
// environments work standalone.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.AdministrativeArea{},
		&domain.FinancialArea{},
		&domain.Chapter{},
		&domain.FundingSource{},
		&domain.Product{},
		&domain.BudgetCeiling{},
		&domain.AnnualProject{},
		&domain.ProjectLedgerEvent{},
		&domain.Requisition{},
		&domain.PositionAssignment{},
		&domain.AnalystArea{},
	)
}
