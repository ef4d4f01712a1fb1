package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trpexport",
	Short: "Export Transkribus document trees as ML datasets",
	Long: `trpexport scans a Transkribus METS export for document bundles and turns
them into a page-level dataset: one record per physical page with its image,
document id, sequence position, and the ALTO and PAGE transcription layers.

The dataset can be pushed to a HuggingFace-style hub, written to a local
directory, or previewed over HTTP.`,
}

func main() {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}
