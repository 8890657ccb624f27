package cmd

import (
	"github.com/iksnae/chat-widget/internal"
	"github.com/spf13/cobra"
)

var resetAll bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the stored conversation",
	Long: `Clear the conversation history from local storage.

With --all the visitor identity is replaced as well, which is the same as
clearing the widget's site storage in a browser.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		if err := store.Reset(); err != nil {
			return err
		}
		if resetAll {
			if _, err := store.ResetIdentity(); err != nil {
				return err
			}
		}

		internal.PrintSuccess(cmd.OutOrStdout(), "Conversation cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "Also replace the visitor identity")
}
