package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhlab-no/trpexport/internal/api"
	"github.com/dhlab-no/trpexport/internal/extractor"
	"github.com/spf13/cobra"
)

var (
	serveAddr        string
	serveCollections []int
)

var serveCmd = &cobra.Command{
	Use:   "serve FOLDER",
	Short: "Serve a read-only preview of the extracted records over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8090", "Listen address")
	serveCmd.Flags().IntSliceVar(&serveCollections, "collection", nil, "Keep only bundles in these collection ids (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	folder := args[0]
	log := newLogger()

	srv := api.NewServer(folder, extractor.Options{Collections: serveCollections}, log)

	httpServer := &http.Server{
		Addr:         serveAddr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving preview", "addr", serveAddr, "root", folder)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
