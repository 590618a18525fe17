package repository

import (
	"context"
	"fmt"

	"github.com/okian/pinochle/internal/adapters/database"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open builds the store named by driver. The result is instrumented.
func Open(ctx context.Context, driver, dataDir, dbPath string) (Store, error) {
	switch driver {
	case DriverMemory:
		return Instrument(NewMemoryStore()), nil
	case DriverFile:
		fs, err := NewFileStore(dataDir)
		if err != nil {
			return nil, err
		}
		return Instrument(fs), nil
	case DriverSQLite:
		db, err := database.Open(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return Instrument(NewSQLStore(db)), nil
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
	}
}
