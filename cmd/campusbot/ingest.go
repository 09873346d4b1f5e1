package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stxaviers/campusbot/internal/config"
	"github.com/stxaviers/campusbot/internal/ingest"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the retrieval corpus from files or college web pages",
	Long: `Build the retrieval corpus from files or college web pages.

Examples:
  campusbot ingest --file ./prospectus.pdf
  campusbot ingest --url https://www.stxaviers.edu.in/admissions
  campusbot ingest --sitemap https://www.stxaviers.edu.in/sitemap.xml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		url, _ := cmd.Flags().GetString("url")
		sitemap, _ := cmd.Flags().GetString("sitemap")

		if file == "" && url == "" && sitemap == "" {
			return fmt.Errorf("one of --file, --url, or --sitemap is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		embedder := retrieval.NewOllamaEmbedder(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel)
		vectors := retrieval.NewSQLiteProvider(store.DB(), embedder)
		pipeline := ingest.New(vectors, embedder)

		var chunks int
		switch {
		case file != "":
			chunks, err = pipeline.IngestFile(ctx, file)
		case url != "":
			chunks, err = pipeline.IngestURL(ctx, url)
		case sitemap != "":
			chunks, err = pipeline.IngestSitemap(ctx, sitemap)
		}
		if err != nil {
			return err
		}

		total, err := vectors.Count()
		if err != nil {
			return err
		}
		printSuccess("Stored %d chunks (%d total in corpus)", chunks, total)
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("file", "", "local text, HTML, or PDF file to ingest")
	ingestCmd.Flags().String("url", "", "page URL to fetch and ingest")
	ingestCmd.Flags().String("sitemap", "", "sitemap.xml URL; every content page it lists is ingested")
}
