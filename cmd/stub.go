package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/chat-widget/internal"
	"github.com/iksnae/chat-widget/internal/stubserver"
	"github.com/spf13/cobra"
)

var stubAddr string

// stubCmd represents the stub command
var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a local echo backend for development",
	Long: `Run a local stand-in for the chat backend. POST /chat answers every
message with "Echo: <message>" and GET /health reports status.

Point the client at it with:
  chat-widget --endpoint http://localhost:8080/chat chat`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := stubserver.NewServer()
		errCh := make(chan error, 1)
		go func() {
			internal.LogInfo("Stub backend listening on %s", stubAddr)
			errCh <- server.Start(stubAddr)
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		internal.LogInfo("Shutting down stub backend...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
	stubCmd.Flags().StringVar(&stubAddr, "addr", ":8080", "Listen address")
}
