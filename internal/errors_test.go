package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("database is locked")
	err := &StorageError{
		Path: "/test/storage.db",
		Op:   "set",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/storage.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid JSON")
	err := &ParseError{
		Source: "storage",
		Key:    HistoryKey,
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, HistoryKey) {
		t.Errorf("ParseError.Error() should contain key, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name      string
		err       *TransportError
		wantCause string
	}{
		{
			name:      "with cause",
			err:       &TransportError{Endpoint: "http://example.test/chat", Err: errors.New("network down")},
			wantCause: "network down",
		},
		{
			name:      "nil cause",
			err:       &TransportError{Endpoint: "http://example.test/chat"},
			wantCause: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Cause(); got != tt.wantCause {
				t.Errorf("TransportError.Cause() = %q, want %q", got, tt.wantCause)
			}
			if !strings.Contains(tt.err.Error(), tt.err.Endpoint) {
				t.Errorf("TransportError.Error() should contain endpoint, got: %q", tt.err.Error())
			}
		})
	}

	cause := errors.New("network down")
	var target *TransportError
	wrapped := errors.Join(errors.New("outer"), &TransportError{Endpoint: "x", Err: cause})
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find TransportError")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("TransportError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("disk full")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/tmp/out.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
