package main

import (
	"fmt"

	"github.com/dhlab-no/trpexport/internal/dataset"
	"github.com/dhlab-no/trpexport/internal/extractor"
	"github.com/spf13/cobra"
)

var (
	exportOut         string
	exportConfigName  string
	exportCollections []int
	exportStrict      bool
)

var exportCmd = &cobra.Command{
	Use:   "export FOLDER",
	Short: "Extract a document tree into a local dataset directory",
	Long: `Scans FOLDER for document bundles and writes the materialized dataset
(imagefolder layout with metadata.jsonl and a dataset card) to --out without
touching the network.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output directory (required)")
	exportCmd.Flags().StringVar(&exportConfigName, "config-name", "default", "Dataset config name")
	exportCmd.Flags().IntSliceVar(&exportCollections, "collection", nil, "Keep only bundles in these collection ids (repeatable)")
	exportCmd.Flags().BoolVar(&exportStrict, "strict-collections", false, "Stop the scan at the first bundle outside the collection filter (legacy single-bundle behavior)")
	exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	folder := args[0]

	w, err := dataset.NewWriter(exportOut, exportConfigName)
	if err != nil {
		return err
	}

	cmd.Println(dimStyle.Render("Extracting..."))
	records := extractor.Records(folder, extractor.Options{
		Collections:      exportCollections,
		StopOnFilterMiss: exportStrict,
	})
	for rec, err := range records {
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		if err := w.Add(rec); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Wrote %d pages to %s", w.Count(), exportOut)))
	return nil
}
