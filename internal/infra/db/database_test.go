package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

func TestNewConnection_SQLite(t *testing.T) {
	database, err := NewConnection(&config.DatabaseConfig{
		Driver:          DriverSQLite,
		URL:             "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !database.DB().Migrator().HasTable(&model.ExpenseModel{}) {
		t.Error("regular_expenses was not created")
	}
	if !database.DB().Migrator().HasTable(&model.MonthlySummaryModel{}) {
		t.Error("monthly_summaries was not created")
	}
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	if _, err := NewConnection(&config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Error("expected an error for an unsupported driver")
	}
}

func TestMigrationFiles_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}
	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for version := range ups {
		if !downs[version] {
			t.Errorf("migration %s has no down file", version)
		}
	}
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	if err := MigrateDown("postgres://unused", 0); err == nil {
		t.Error("expected an error for zero steps")
	}
}
