// Package ledger selects the Booking Ledger Service backend.
package ledger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/config"
	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/ledger/memory"
	"github.com/Seascape-Charters/service-booking/internal/platform/database"
	"github.com/Seascape-Charters/service-booking/internal/platform/health"
	"github.com/Seascape-Charters/service-booking/internal/repository"
)

// Backend is a ledger that also serves the yacht catalog.
type Backend interface {
	booking.Ledger
	yacht.Catalog
	health.Checker
}

// Open connects the backend named by cfg.LedgerDriver. The returned close
// function releases its resources and is never nil.
func Open(cfg *config.ServiceConfig, log *zap.Logger) (Backend, func(), error) {
	switch cfg.LedgerDriver {
	case config.LedgerMemory:
		mem := memory.New()
		fleet := memory.SeedDemoFleet(mem)
		log.Warn("using in-memory ledger; bookings are lost on restart",
			zap.Int("yachts", len(fleet)),
		)
		return mem, func() {}, nil

	case config.LedgerPostgres:
		db, err := database.Connect(cfg.DBConfig, log)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			closeDB()
			return nil, nil, err
		}
		return repository.NewPostgresLedger(db), closeDB, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger driver %q", cfg.LedgerDriver)
	}
}
