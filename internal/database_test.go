package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/chat-widget/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing database",
			setup: func(t *testing.T) string {
				dbPath := testutil.TempStoragePath(t)
				testutil.CreateSQLiteFixture(t, dbPath)
				return dbPath
			},
		},
		{
			name: "new database in missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nested", "dir", "storage.db")
			},
		},
		{
			name: "in-memory database",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer db.Close()

			if _, err := QueryStorageKV(db, "%"); err != nil {
				t.Errorf("widgetStorage table should exist: %v", err)
			}
		})
	}
}

func TestQueryStorageKV(t *testing.T) {
	db := testutil.CreateTestDB(t)

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "all keys", pattern: "%", want: 2},
		{name: "history key", pattern: "chat-%", want: 1},
		{name: "no match", pattern: "missing:%", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := QueryStorageKV(db, tt.pattern)
			if err != nil {
				t.Fatalf("QueryStorageKV() error = %v", err)
			}
			if len(pairs) != tt.want {
				t.Errorf("QueryStorageKV() got %d results, want %d", len(pairs), tt.want)
			}
		})
	}
}

func TestStorageValueRoundTrip(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	if _, ok, err := GetStorageValue(db, "user_id"); err != nil || ok {
		t.Fatalf("GetStorageValue() on empty db = ok %v, err %v", ok, err)
	}

	if err := SetStorageValue(db, "user_id", "user_a"); err != nil {
		t.Fatalf("SetStorageValue() error = %v", err)
	}
	if err := SetStorageValue(db, "user_id", "user_b"); err != nil {
		t.Fatalf("SetStorageValue() overwrite error = %v", err)
	}

	value, ok, err := GetStorageValue(db, "user_id")
	if err != nil || !ok {
		t.Fatalf("GetStorageValue() = ok %v, err %v", ok, err)
	}
	if value != "user_b" {
		t.Errorf("GetStorageValue() = %q, want user_b", value)
	}

	if err := DeleteStorageValue(db, "user_id"); err != nil {
		t.Fatalf("DeleteStorageValue() error = %v", err)
	}
	if err := DeleteStorageValue(db, "user_id"); err != nil {
		t.Errorf("DeleteStorageValue() on absent key error = %v", err)
	}
	if _, ok, _ := GetStorageValue(db, "user_id"); ok {
		t.Error("key should be gone after delete")
	}
}
