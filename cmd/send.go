package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/chat-widget/internal"
	"github.com/spf13/cobra"
)

var sendWidth int

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Long: `Send a single message to the assistant and print the reply.

Both the message and the reply (or the error entry recorded when the
backend could not be reached) are appended to the stored conversation,
exactly as the interactive widget would.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		chat := internal.NewChat(store, newTransport())
		ctx := context.Background()

		ex, err := chat.Submit(ctx, text)
		if err != nil {
			return err
		}

		var reply internal.Message
		err = internal.ShowProgress(ctx, "Waiting for reply", func() error {
			reply = ex.Wait()
			return ex.Err()
		})

		fmt.Fprintln(cmd.OutOrStdout(), internal.RenderMessage(reply, sendWidth))
		if err != nil {
			return fmt.Errorf("message recorded but the exchange failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVarP(&sendWidth, "width", "w", 80, "Render width")
}
