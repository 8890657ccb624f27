package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/iksnae/chat-widget/internal"
	"github.com/spf13/cobra"
)

var (
	limit        int
	historyWidth int
	historyRaw   bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the stored conversation",
	Long: `Display the conversation persisted in local storage, oldest first.

Use --limit to show only the most recent entries and --raw to print the
stored JSON instead of the rendered transcript.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if limit < 0 {
			return fmt.Errorf("limit must not be negative, got %d", limit)
		}

		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		history := store.History()
		if limit > 0 && len(history) > limit {
			history = history[len(history)-limit:]
		}

		out := cmd.OutOrStdout()
		if historyRaw {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(history)
		}

		fmt.Fprintln(out, internal.RenderHistory(history, historyWidth))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages (0 for all)")
	historyCmd.Flags().IntVarP(&historyWidth, "width", "w", 80, "Render width")
	historyCmd.Flags().BoolVar(&historyRaw, "raw", false, "Print the stored JSON")
}
