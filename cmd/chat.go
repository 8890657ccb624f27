package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/tui"
	"github.com/spf13/cobra"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat widget",
	Long: `Open the chat widget in the terminal.

The stored conversation is shown on start, every message is saved as soon
as it is sent, and replies appear as they arrive. Several messages may be
waiting for replies at once.

Keys: enter sends, ctrl+o hides or shows the widget, ctrl+c quits.
Log output goes to chat.log next to the storage database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		logFile := redirectLogs(filepath.Join(filepath.Dir(st.Path()), "chat.log"))
		defer func() {
			internal.SetLogOutput(os.Stderr)
			if logFile != nil {
				_ = logFile.Close()
			}
		}()

		chat := internal.NewChat(store, newTransport())
		if err := tui.Run(context.Background(), chat); err != nil {
			return err
		}

		// Replies still in flight are recorded before the store closes.
		chat.Wait()
		return nil
	},
}

// redirectLogs keeps log lines off the alternate screen
func redirectLogs(path string) *os.File {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		internal.SetLogOutput(io.Discard)
		return nil
	}
	internal.SetLogOutput(f)
	return f
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
