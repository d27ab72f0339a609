package app

import (
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// LogEntryRepository creates a log entry repository for the configured driver.
func (f *RepositoryFactory) LogEntryRepository() (domain.LogEntryRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return persistence.NewPostgresLogEntryRepository(f.conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteLogEntryRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// GoalConfigRepository creates a goal configuration repository for the
// configured driver.
func (f *RepositoryFactory) GoalConfigRepository() (domain.GoalConfigRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return persistence.NewPostgresGoalConfigRepository(f.conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteGoalConfigRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// CareTeamRepository creates a care team repository for the configured driver.
func (f *RepositoryFactory) CareTeamRepository() (domain.CareTeamRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return persistence.NewPostgresCareTeamRepository(f.conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteCareTeamRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates a unit of work over the connection.
func (f *RepositoryFactory) UnitOfWork() database.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
