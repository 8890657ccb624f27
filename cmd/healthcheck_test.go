package cmd

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHealthcheckCommand(t *testing.T) {
	env := newTestEnv(t, "unused")

	out, err := env.run(t, "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Health check passed") {
		t.Errorf("unexpected output:\n%s", out)
	}
	// The test backend rejects GET with 405, which still proves it is reachable.
	if !strings.Contains(out, "status 405") {
		t.Errorf("expected probe status in output:\n%s", out)
	}
}

func TestHealthcheckCommand_Verbose(t *testing.T) {
	env := newTestEnv(t, "unused")

	out, err := env.run(t, "--verbose", "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v", err)
	}
	if !strings.Contains(out, env.storage) || !strings.Contains(out, env.endpoint) {
		t.Errorf("verbose output should include storage and endpoint:\n%s", out)
	}
}

func TestHealthcheckCommand_VerboseListsStoredKeys(t *testing.T) {
	env := newTestEnv(t, "Hi there")
	if _, err := env.run(t, "send", "Hello"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	out, err := env.run(t, "--verbose", "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck failed: %v", err)
	}
	if !strings.Contains(out, "Stored keys: chat-history, user_id") {
		t.Errorf("verbose output should list stored keys:\n%s", out)
	}
}

func TestHealthcheckCommand_BackendDown(t *testing.T) {
	server := httptest.NewServer(nil)
	endpoint := server.URL
	server.Close()

	env := newTestEnv(t, "unused")
	env.endpoint = endpoint

	out, err := env.run(t, "healthcheck")
	if err == nil {
		t.Fatal("healthcheck should fail when the backend is unreachable")
	}
	if !strings.Contains(out, "Backend unreachable") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestHealthcheckCommand_StorageUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t, "unused")
	env.storage = filepath.Join(blocker, "storage.db")

	out, err := env.run(t, "healthcheck")
	if err == nil {
		t.Fatal("healthcheck should fail when storage cannot be opened")
	}
	if !strings.Contains(out, "Failed to open storage") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
