package postgres

import (
	"fmt"

	"baggage/internal/adapters/out/postgres/baggagerepo"
	"baggage/internal/adapters/out/postgres/flightrepo"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the settings the repositories depend on.
// TranslateError turns unique and foreign key violations into gorm.ErrDuplicatedKey
// and gorm.ErrForeignKeyViolated.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

const flightForeignKey = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_baggage_flight') THEN
		ALTER TABLE baggage
			ADD CONSTRAINT fk_baggage_flight FOREIGN KEY (flight_id) REFERENCES flights (id);
	END IF;
END
$$;`

// Migrate creates or updates the flights, baggage and baggage_history tables.
// It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&flightrepo.FlightDTO{},
		&baggagerepo.BaggageDTO{},
		&baggagerepo.HistoryEntryDTO{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	if err := db.Exec(flightForeignKey).Error; err != nil {
		return fmt.Errorf("migrate flight foreign key: %w", err)
	}

	return nil
}
