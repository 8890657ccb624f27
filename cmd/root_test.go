package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so runs do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns captured stdout
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// testEnv is a storage file plus a backend that answers every message with reply
type testEnv struct {
	storage  string
	endpoint string
}

func newTestEnv(t *testing.T, reply string) *testEnv {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"reply":%q}`, reply)
	}))
	t.Cleanup(server.Close)

	return &testEnv{
		storage:  filepath.Join(t.TempDir(), "storage.db"),
		endpoint: server.URL,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	base := []string{"--storage", e.storage, "--endpoint", e.endpoint, "--timeout", "5s"}
	return executeCommand(t, append(base, args...)...)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_SubcommandsRegistered(t *testing.T) {
	want := []string{"chat", "send", "history", "export", "identity", "reset", "healthcheck", "stub"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("%s command not registered", name)
		}
	}
}

func TestRootCommand_NegativeTimeout(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "storage.db")
	_, err := executeCommand(t, "--storage", storage, "--timeout=-1s", "identity")
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout validation error, got %v", err)
	}
}

func TestRootCommand_StorageFromEnvironment(t *testing.T) {
	storage := filepath.Join(t.TempDir(), "env", "storage.db")
	t.Setenv("CHAT_WIDGET_STORAGE", storage)

	out, err := executeCommand(t, "identity")
	if err != nil {
		t.Fatalf("identity failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "user_") {
		t.Errorf("unexpected identity output %q", out)
	}
	if _, err := os.Stat(storage); err != nil {
		t.Errorf("storage should be created at the environment path: %v", err)
	}
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	storage := filepath.Join(dir, "from-config.db")
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("storage: %s\ntimeout: 3s\n", storage)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := executeCommand(t, "--config", configPath, "identity"); err != nil {
		t.Fatalf("identity failed: %v", err)
	}
	if cfg.Timeout.String() != "3s" {
		t.Errorf("timeout = %s, want 3s from config file", cfg.Timeout)
	}
	if _, err := os.Stat(storage); err != nil {
		t.Errorf("storage should be created at the configured path: %v", err)
	}
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "identity")
	if err == nil {
		t.Error("expected an error for a missing config file")
	}
}
