package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShowProgress(ctx, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgress_MessageLoggedVerbatim(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	// Without a terminal the message goes to the log as-is.
	err := ShowProgress(context.Background(), "Uploading 100% of 5%d", func() error { return nil })
	if err != nil {
		t.Fatalf("ShowProgress() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Uploading 100% of 5%d") {
		t.Errorf("message should be logged verbatim, got %q", buf.String())
	}
}

func TestShowProgressSpinner(t *testing.T) {
	var buf bytes.Buffer
	err := showProgressSpinner(context.Background(), &buf, "Waiting", func() error {
		time.Sleep(150 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showProgressSpinner() error = %v", err)
	}
	if !strings.Contains(buf.String(), "✓ Waiting") {
		t.Errorf("expected success line, got %q", buf.String())
	}
}

func TestShowProgressSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	err := showProgressSpinner(ctx, &bytes.Buffer{}, "Blocked", func() error {
		<-release
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showProgressSpinner() error = %v, want deadline exceeded", err)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestPrintHelpers(t *testing.T) {
	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  string
	}{
		{"success", func(b *bytes.Buffer) { PrintSuccess(b, "done") }, "done\n"},
		{"error", func(b *bytes.Buffer) { PrintError(b, "failed") }, "failed\n"},
		{"info", func(b *bytes.Buffer) { PrintInfo(b, "note") }, "note\n"},
		{"warning", func(b *bytes.Buffer) { PrintWarning(b, "careful") }, "WARNING: careful\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
