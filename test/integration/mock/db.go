package mock

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *Db
)

// Db is an in-memory SQLite database shared by every scenario of a run.
// Tables are keyed by name so assertions can look their model up.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared database once and creates a table per model.
// The name only labels the in-memory database.
func NewDb(name string, models map[string]any) *Db {
	dbOnce.Do(func() {
		db = open(name, models)
	})
	return db
}

func open(name string, models map[string]any) *Db {
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	sqlDB, err := conn.DB()
	if err != nil {
		panic(err)
	}
	// A single connection keeps the shared in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)

	d := &Db{DbConn: conn, models: models}
	for table, model := range models {
		if err := conn.AutoMigrate(model); err != nil {
			panic(fmt.Sprintf("failed to migrate %s: %s", table, err))
		}
	}
	return d
}

// ClearDB deletes every row of every registered table.
func (d *Db) ClearDB() error {
	for table := range d.models {
		if err := d.DbConn.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// GetModel returns the model registered for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
