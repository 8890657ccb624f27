package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

// CreateTempDir creates a temporary directory removed at the end of the test
func CreateTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// TempStoragePath returns a database path inside a fresh temporary directory
func TempStoragePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "storage.db")
}

// JSONUnmarshal unmarshals JSON for testing
func JSONUnmarshal(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
}
