package db

import (
	"github.com/pkg/errors"

	"github.com/habitloop/habitloop/internal/profile"
	"github.com/habitloop/habitloop/store"
	"github.com/habitloop/habitloop/store/db/postgres"
	"github.com/habitloop/habitloop/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default for development and single-user deployments;
// PostgreSQL is the production driver. Both implement the full store.Driver
// surface.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
