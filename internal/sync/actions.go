// Package sync implements the sync command: read the inbox (or a single
// --url), run every discovered listing through the pipeline and print the
// batch summary.
package sync

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cejezed/kavelarchitect/internal/common"
	"github.com/cejezed/kavelarchitect/models"
	archivepkg "github.com/cejezed/kavelarchitect/pkg/archive"
	"github.com/cejezed/kavelarchitect/pkg/enrich"
	"github.com/cejezed/kavelarchitect/pkg/geocode"
	ledgerpkg "github.com/cejezed/kavelarchitect/pkg/ledger"
	"github.com/cejezed/kavelarchitect/pkg/mailbox"
	"github.com/cejezed/kavelarchitect/pkg/pipeline"
	"github.com/cejezed/kavelarchitect/pkg/render"
	"github.com/cejezed/kavelarchitect/pkg/scrape"
	"github.com/cejezed/kavelarchitect/pkg/sheets"
	"github.com/cejezed/kavelarchitect/pkg/staticmap"
	"github.com/cejezed/kavelarchitect/pkg/wordpress"
)

func Action(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := common.NewLogger(c, cfg.Logging.Level)

	if c.Int("max-messages") > 0 {
		cfg.Mailbox.MaxMessages = c.Int("max-messages")
	}

	ledger := ledgerpkg.Open(cfg.State.LedgerFile)
	urls, ids := ledger.Size()
	logger.Info("ledger loaded", "path", cfg.State.LedgerFile, "urls", urls, "ids", ids)

	// The archive is bookkeeping; a broken archive file must not stop a run.
	var archive *archivepkg.DB
	if db, err := archivepkg.Open(cfg.Archive.Database); err != nil {
		logger.Warn("archive unavailable, continuing without it", "error", err)
	} else {
		archive = db
		defer archive.Close()
	}

	scraper := scrape.NewClient()

	p := &pipeline.Pipeline{
		Logger:   logger,
		Ledger:   ledger,
		Scraper:  scraper,
		Geocoder: geocode.NewClient(cfg.Geocode),
		Maps:     staticmap.NewClient(cfg.Maps),
		Renderer: render.NewRenderer(cfg.Content),
		LogSink:  sheets.NewClient(cfg.Webhook, logger),
		DryRun:   c.Bool("dry-run"),
	}
	if archive != nil {
		p.Archive = archive
	}
	if cfg.Enrichment.Enabled && cfg.Enrichment.APIKey != "" {
		p.Enricher = enrich.NewClient(cfg.Enrichment, scraper.DescriptionText)
	} else {
		logger.Info("enrichment disabled, relying on page scrape")
	}
	for _, site := range cfg.Sites {
		p.Targets = append(p.Targets, wordpress.NewSite(site))
	}
	if len(p.Targets) == 0 && !p.DryRun {
		logger.Warn("no publish targets configured, every listing will fail")
	}

	var runID int64
	if archive != nil {
		if runID, err = archive.StartRun(); err != nil {
			logger.Warn("failed to record run start", "error", err)
		}
	}

	var sum pipeline.Summary
	if single := c.String("url"); single != "" {
		sum = p.ProcessBatch([]models.ListingReference{{URL: single}})
	} else {
		sum, err = processInbox(p, mailbox.New(cfg.Mailbox, logger), logger, c.Bool("dry-run"))
		if err != nil {
			return err
		}
	}

	if archive != nil && runID > 0 {
		if err := archive.FinishRun(runID, sum.Published, sum.Duplicates, sum.Skipped, sum.Failed); err != nil {
			logger.Warn("failed to record run finish", "error", err)
		}
	}

	printSummary(sum)
	return nil
}

// processInbox walks the saved notification mails. A message file moves to
// the processed directory only when none of its listings failed, and never
// on a dry run; a retained file is the failed listing's only way back into a
// later run.
func processInbox(p *pipeline.Pipeline, mb *mailbox.Mailbox, logger *slog.Logger, dryRun bool) (pipeline.Summary, error) {
	msgs, err := mb.Messages()
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("failed to read mailbox: %w", err)
	}
	if len(msgs) == 0 {
		logger.Info("inbox empty")
		return pipeline.Summary{}, nil
	}

	var sum pipeline.Summary
	for _, msg := range msgs {
		logger.Info("processing message", "file", msg.Path, "listings", len(msg.Listings))
		s := p.ProcessBatch(msg.Listings)
		sum.Published += s.Published
		sum.Duplicates += s.Duplicates
		sum.Skipped += s.Skipped
		sum.Failed += s.Failed
		sum.DryRun += s.DryRun

		if dryRun {
			continue
		}
		if s.Failed > 0 {
			logger.Info("message retained for retry", "file", msg.Path, "failed", s.Failed)
			continue
		}
		if err := mb.MarkProcessed(msg); err != nil {
			logger.Warn("failed to move processed message", "file", msg.Path, "error", err)
		}
	}
	return sum, nil
}

func printSummary(sum pipeline.Summary) {
	fmt.Fprintf(os.Stdout, "Processed %d listings: %d published, %d duplicates, %d skipped, %d failed",
		sum.Total(), sum.Published, sum.Duplicates, sum.Skipped, sum.Failed)
	if sum.DryRun > 0 {
		fmt.Fprintf(os.Stdout, ", %d dry-run", sum.DryRun)
	}
	fmt.Fprintln(os.Stdout)
}
