package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhlab-no/trpexport/internal/config"
	"github.com/dhlab-no/trpexport/internal/extractor"
	"github.com/dhlab-no/trpexport/internal/hub"
	"github.com/spf13/cobra"
)

var (
	pushConfigName  string
	pushCollections []int
	pushToken       string
	pushPrivate     bool
	pushStrict      bool
)

var pushCmd = &cobra.Command{
	Use:   "push REPOSITORY FOLDER",
	Short: "Extract a document tree and push it to the dataset hub",
	Long: `Scans FOLDER for document bundles, extracts one record per page, and
uploads the materialized dataset to REPOSITORY on the hub.`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushConfigName, "config-name", "default", "Dataset config name")
	pushCmd.Flags().IntSliceVar(&pushCollections, "collection", nil, "Keep only bundles in these collection ids (repeatable)")
	pushCmd.Flags().StringVar(&pushToken, "token", "", "Hub access token (defaults to HUGGINGFACE_TOKEN)")
	pushCmd.Flags().BoolVar(&pushPrivate, "private", false, "Create the dataset repository as private")
	pushCmd.Flags().BoolVar(&pushStrict, "strict-collections", false, "Stop the scan at the first bundle outside the collection filter (legacy single-bundle behavior)")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	repo, folder := args[0], args[1]

	cfg := config.Load()
	if pushToken != "" {
		cfg.HubToken = pushToken
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := hub.NewClient(cfg.HubEndpoint, cfg.HubToken, cfg.HTTPTimeout)
	defer client.Close()

	cmd.Println(dimStyle.Render("Creating repository " + repo + "..."))
	if err := client.CreateRepo(ctx, repo, pushPrivate); err != nil {
		return err
	}

	records := extractor.Records(folder, extractor.Options{
		Collections:      pushCollections,
		StopOnFilterMiss: pushStrict,
	})

	cmd.Println(dimStyle.Render("Extracting and uploading..."))
	pub := hub.NewPublisher(client, log, cfg.CommitBatchBytes)
	count, err := pub.Push(ctx, repo, pushConfigName, records)
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Pushed %d pages to %s", count, repo)))
	return nil
}
