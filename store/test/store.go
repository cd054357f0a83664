package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	// sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/stekc/myTimeAPI/internal/profile"
	"github.com/stekc/myTimeAPI/store"
	"github.com/stekc/myTimeAPI/store/db"
)

// NewTestingStore returns a migrated store. It uses a SQLite file in a temp
// directory unless DRIVER=postgres and POSTGRES_TEST_DSN are set.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	profile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(profile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	st := store.New(dbDriver, profile)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: driver,
		Data:   t.TempDir(),
	}

	switch driver {
	case "postgres":
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("POSTGRES_TEST_DSN not set")
		}
		p.DSN = dsn
	default:
		p.DSN = fmt.Sprintf("%s/mytime_test.db", p.Data)
	}
	return p
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}
