package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// HistoryFixture is a well-formed two-entry conversation blob
const HistoryFixture = `[{"text":"Hello","sender":"user"},{"text":"Hi there","sender":"bot"}]`

// CorruptHistoryFixture is a history blob that fails to parse
const CorruptHistoryFixture = `[{"text":"Hello","sender":"user"},`

// CreateSQLiteFixture creates an on-disk storage database with sample data
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	CreateSQLiteFixtureWith(t, dbPath, map[string]string{
		"user_id":      "user_fixture",
		"chat-history": HistoryFixture,
	})
}

// CreateSQLiteFixtureWith creates an on-disk storage database holding values
func CreateSQLiteFixtureWith(t *testing.T, dbPath string, values map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS widgetStorage (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for key, value := range values {
		if _, err := db.Exec("INSERT OR REPLACE INTO widgetStorage (key, value) VALUES (?, ?)", key, value); err != nil {
			t.Fatalf("Failed to insert %s: %v", key, err)
		}
	}
}
