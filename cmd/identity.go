package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetIdentity bool

// identityCmd represents the identity command
var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Print the anonymous visitor identity",
	Long: `Print the visitor identity sent with every message. It is created on
first use and reused afterwards.

--reset assigns a new identity. The stored conversation is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, store, err := openSession()
		if err != nil {
			return err
		}
		defer closeStorage(st)

		id := store.Identity()
		if resetIdentity {
			if id, err = store.ResetIdentity(); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(identityCmd)
	identityCmd.Flags().BoolVar(&resetIdentity, "reset", false, "Assign a new identity")
}
