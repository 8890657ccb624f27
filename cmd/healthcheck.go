package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chat-widget/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that local storage and the chat backend are usable",
	Long: `Check the health of chat-widget by verifying:
  • Local storage can be opened
  • The visitor identity and conversation history can be read
  • The chat backend endpoint is reachable

This command is useful for debugging storage or connectivity issues.
Pass --verbose for paths and details.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Chat Widget Health Check"))
		fmt.Fprintln(out)

		// Step 1: storage
		fmt.Fprintln(out, infoStyle.Render("Step 1: Opening local storage..."))
		st, store, err := openSession()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open storage:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer closeStorage(st)
		fmt.Fprintln(out, successStyle.Render("✅ Storage available"))
		if cfg.Verbose {
			fmt.Fprintf(out, "   Database: %s\n", st.Path())
		}
		fmt.Fprintln(out)

		// Step 2: session
		fmt.Fprintln(out, infoStyle.Render("Step 2: Reading session..."))
		history := store.History()
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Identity %s, %d message(s) stored", store.Identity(), len(history))))
		if cfg.Verbose {
			if last, ok := history.Last(); ok {
				fmt.Fprintf(out, "   Last entry from %s\n", last.Sender)
			}
			keys, err := store.StoredKeys()
			if err != nil {
				fmt.Fprintln(out, warningStyle.Render("⚠️  Failed to list stored keys:"), err)
			} else {
				fmt.Fprintf(out, "   Stored keys: %s\n", strings.Join(keys, ", "))
			}
		}
		fmt.Fprintln(out)

		// Step 3: backend
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting chat backend..."))
		tr := newTransport()
		if cfg.Verbose {
			fmt.Fprintf(out, "   Endpoint: %s\n", tr.Endpoint())
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Timeout)
		}
		status, err := tr.Probe(context.Background())
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), internal.Diagnostic(err))
			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintln(out, "   • Messages will be answered with an error entry")
			return fmt.Errorf("health check failed: backend unreachable")
		}
		if status >= http.StatusInternalServerError {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Backend answered with status %d", status)))
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend reachable (status %d)", status)))
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
