package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/framework-foundry/weekly/internal/config"
	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/models"
	"github.com/framework-foundry/weekly/internal/notify"
	"github.com/framework-foundry/weekly/internal/pdf"
	"github.com/framework-foundry/weekly/internal/pipeline"
	"github.com/framework-foundry/weekly/internal/render"
	"github.com/framework-foundry/weekly/internal/site"
	"github.com/framework-foundry/weekly/internal/verify"
)

var (
	configPath  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	dateFlag    = flag.String("date", "", "Newsletter date (YYYY-MM-DD), default today")
	editionFlag = flag.String("edition", "domestic", "Edition to generate: domestic or international")
	liveFlag    = flag.Bool("live", false, "Fetch live market data (default: fixtures)")
	previewFlag = flag.Bool("preview", false, "Print the newsletter to stdout instead of saving")
	pdfFlag     = flag.Bool("pdf", false, "Also export the issue as a PDF")
	siteFlag    = flag.Bool("site", false, "Also build the static HTML site")
	verifyFlag  = flag.Bool("verify", false, "Cross-check prices against the secondary source")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	date := *dateFlag
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Shutdown signal received, aborting run")
		cancel()
	}()

	if err := run(ctx, cfg, date); err != nil {
		var discrepancy *models.PriceDiscrepancyError
		if errors.As(err, &discrepancy) {
			logger.Error("Aborting: %v", discrepancy)
			os.Exit(2)
		}
		logger.Error("Generation failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, date string) error {
	runner := pipeline.New(cfg, *liveFlag)
	result, err := runner.Run(ctx, *editionFlag, date)
	if err != nil {
		return err
	}

	// Verification runs before anything is published.
	if *verifyFlag || cfg.Verify.Enabled {
		v := verify.New(cfg.Verify.CSVBaseURL, cfg.Verify.SeriesMap, cfg.Verify.TolerancePct)
		if err := v.Verify(ctx, result.Series, result.Summary.WeekEnding); err != nil {
			return err
		}
		logger.Info("All prices verified within %.1f%% tolerance", cfg.Verify.TolerancePct)
	}

	if *previewFlag {
		fmt.Println(result.Markdown)
		return nil
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(cfg.Output.Dir, render.FileName(result.Summary.Edition, result.Summary.WeekEnding))
	if err := os.WriteFile(outPath, []byte(result.Markdown), 0o644); err != nil {
		return fmt.Errorf("failed to save newsletter: %w", err)
	}
	logger.Info("Newsletter saved to %s", outPath)

	if *pdfFlag {
		pdfPath, err := pdf.Export(pdf.Input{
			Summary:   result.Summary,
			Narrative: result.Narrative,
			Tips:      result.Tips,
		}, cfg.Output.Dir)
		if err != nil {
			return err
		}
		logger.Info("PDF saved to %s", pdfPath)
	}

	if *siteFlag {
		sitePath, err := site.Build(result.Markdown, result.Summary, cfg.Output.SiteDir)
		if err != nil {
			return err
		}
		logger.Info("Site built at %s", sitePath)
	}

	if cfg.Telegram.Enabled {
		client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 3, time.Second)
		if err != nil {
			logger.Warn("Telegram client unavailable: %v", err)
			return nil
		}
		if err := client.Announce(result.Summary, len(result.Tips), outPath); err != nil {
			logger.Warn("Failed to send Telegram notice: %v", err)
			return nil
		}
		logger.Info("Publication notice sent")
	}

	return nil
}
