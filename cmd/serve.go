package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/witanlabs/xlsxwriter/server"
)

var (
	serveAddr      string
	serveReadLimit int64
	serveTimeout   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Accept rows over a websocket and answer with an xlsx",
	Long: `Run an HTTP server with a websocket endpoint at /ws.

Clients send JSON text messages and receive the finished workbook as one
binary message:

  {"type":"author","author":"Finance"}
  {"type":"sheet","name":"Report","widths":[18,10]}
  {"type":"row","values":["north",42,"=B1*2",null]}
  {"type":"done"}

Rows without a preceding "sheet" message go to the default sheet. Invalid
messages get an {"type":"error"} reply and the connection is closed.

Examples:
  xlsxwriter serve
  xlsxwriter serve --addr 127.0.0.1:9000 --read-limit 4194304`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().Int64Var(&serveReadLimit, "read-limit", server.DefaultReadLimit, "Maximum size of one inbound message in bytes")
	serveCmd.Flags().DurationVar(&serveTimeout, "session-timeout", server.DefaultSessionTimeout, "Maximum duration of one session")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	srv := server.New(server.Options{
		Author:           resolveAuthor(cfg),
		DefaultSheetName: cfg.DefaultSheetName,
		ColumnWidth:      cfg.ColumnWidth,
		ReadLimit:        serveReadLimit,
		SessionTimeout:   serveTimeout,
		Logger:           logger,
	})
	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	fmt.Fprintf(os.Stderr, "Listening on %s (websocket endpoint /ws)\n", serveAddr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %s: %w", serveAddr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.String("addr", serveAddr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
