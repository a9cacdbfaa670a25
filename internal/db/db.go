package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"forum/internal/model"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open returns a connected GORM DB instance for the given driver.
// Duplicate-key errors are translated to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case DriverMySQL:
		db, err := gorm.Open(mysql.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		return db, nil
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err := gorm.Open(sqlite.Open(sqliteDSN(dsn)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the users and posts tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	// MySQL's default collation folds case; usernames must compare exactly.
	if db.Dialector.Name() == DriverMySQL {
		if err := db.Exec("ALTER TABLE users MODIFY username VARCHAR(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").Error; err != nil {
			return fmt.Errorf("set username collation: %w", err)
		}
	}
	return nil
}

// Reset drops every table owned by the application.
func Reset(db *gorm.DB) error {
	for _, table := range []interface{}{&model.Post{}, &model.User{}} {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000"
}
