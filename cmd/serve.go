package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/tagscan/internal/handlers"
	"github.com/lehigh-university-libraries/tagscan/internal/ocr"
	"github.com/lehigh-university-libraries/tagscan/internal/scanner"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port string
		rf   recognizerFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the asset tag capture API",
		Long: `Starts the Tagscan HTTP API on the specified port.

Clients open a session for a location, submit photos of asset labels with a
category, and download the resulting inventory as CSV, XLSX, Parquet or YAML.
The OCR backend is built on the first submission and shared by all sessions.`,
		Example: `  # Start server on default port 8888
  tagscan serve

  # Use Gemini instead of the local Tesseract engine
  TAGSCAN_OCR_PROVIDER=gemini tagscan serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor, err := rf.extractor(cmd)
			if err != nil {
				return err
			}
			scheme, err := nameSchemeFromEnv()
			if err != nil {
				return err
			}

			provider := rf.providerName()
			recognizer := ocr.NewLazy(func() (ocr.Recognizer, error) {
				slog.Info("Initializing OCR backend", "provider", provider)
				return buildRecognizer(provider, rf.model)
			})
			defer closeRecognizer(recognizer)

			handler := handlers.New(scanner.NewService(recognizer, extractor, slog.Default()), scheme)

			mux := http.NewServeMux()
			handler.Register(mux)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Tagscan API available", "addr", addr, "provider", provider, "strict", extractor.Strict(), "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	rf.register(cmd)

	return cmd
}
