package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kuku/internal/config"
	"kuku/internal/infrastructure/mysql"
	"kuku/internal/infrastructure/sqlite"
)

// SetupTestDB opens a fresh SQLite store with the schema applied. It is
// removed together with the test's temp dir.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.NewConnection(filepath.Join(t.TempDir(), "kuku_test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// SetupMySQLDB connects to the MySQL database named by KUKU_TEST_MYSQL_DSN
// (default root:@tcp(localhost:3306)/kuku_test) and skips when unreachable.
func SetupMySQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("KUKU_TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/kuku_test?parseTime=true&multiStatements=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	for _, stmt := range strings.Split(mysql.Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}

	t.Cleanup(func() { CleanupTestDB(t, db) })
	return db
}

// CleanupTestDB empties every table, children first.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"payments", "order_items", "orders", "products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// TestDatabaseConfig returns a config pointing at a temp SQLite file.
func TestDatabaseConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	cfg := config.Defaults().Database
	cfg.Driver = config.DriverSQLite
	cfg.Path = filepath.Join(t.TempDir(), "kuku_test.db")
	return cfg
}
