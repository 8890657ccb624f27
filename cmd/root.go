package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose     bool
	storagePath string
	endpoint    string
	timeout     time.Duration
	configFile  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"

	v   = internal.NewViper()
	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-widget",
	Short: "Chat with the site assistant from your terminal",
	Long: `A terminal client for the website chat widget.

It keeps an anonymous visitor identity and the conversation history in a
local store, so a conversation survives restarts, and exchanges messages
with the assistant backend over HTTP.

Quick Start:
  chat-widget chat                     # Open the interactive widget
  chat-widget send "Hello"             # Send one message and print the reply
  chat-widget history                  # Show the stored conversation
  chat-widget export --format md       # Export the conversation as Markdown

Settings can also come from CHAT_WIDGET_* environment variables or a
YAML file passed with --config.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig(v, configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		internal.SetVerbose(cfg.Verbose)
		internal.LogDebug("Using storage %s and endpoint %s", cfg.Storage, cfg.Endpoint)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&storagePath, "storage", "", "Path to the local storage database (default ~/.chat-widget/storage.db)")
	flags.StringVar(&endpoint, "endpoint", transport.DefaultEndpoint, "Chat backend endpoint")
	flags.DurationVar(&timeout, "timeout", transport.DefaultTimeout, "Request timeout (0 disables)")
	flags.StringVar(&configFile, "config", "", "Config file (YAML)")

	bindFlag(v, internal.ConfigVerbose, "verbose")
	bindFlag(v, internal.ConfigStorage, "storage")
	bindFlag(v, internal.ConfigEndpoint, "endpoint")
	bindFlag(v, internal.ConfigTimeout, "timeout")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

func bindFlag(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
	}
}

// openSession opens the configured storage and performs the mount-time reads
func openSession() (*internal.Storage, *internal.SessionStore, error) {
	st, err := internal.OpenStorage(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	store := internal.NewSessionStore(st)
	if err := store.Open(); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return st, store, nil
}

func newTransport() *transport.HTTPTransport {
	return transport.NewHTTPTransport(cfg.Endpoint, cfg.Timeout)
}

func closeStorage(st *internal.Storage) {
	if err := st.Close(); err != nil {
		internal.LogWarn("Failed to close storage %s: %v", st.Path(), err)
	}
}
