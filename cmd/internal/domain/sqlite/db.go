package sqlite

import (
	"database/sql/driver"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LowerFunc lowercases its argument with Unicode rules, the built-in LOWER()
// only folds ASCII letters.
const LowerFunc = "unicode_lower"

//go:embed migrations/*.sql
var migrations embed.FS

var (
	registerOnce sync.Once
	registerErr  error
)

// Init opens the database at path (":memory:" is accepted) and applies every pending
// migration. Foreign keys are enforced on the connection since the schema relies on
// ON DELETE rules.
func Init(path string) (*gorm.DB, error) {
	registerOnce.Do(func() {
		registerErr = gosqlite.RegisterDeterministicScalarFunction(LowerFunc, 1, unicodeLower)
	})
	if registerErr != nil {
		return nil, fmt.Errorf("register %s: %w", LowerFunc, registerErr)
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// SQLite only supports one writer, and ":memory:" databases live per connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
