package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raushankrgupta/vessel-registry-scraper/config"
	"github.com/raushankrgupta/vessel-registry-scraper/logger"
	"github.com/raushankrgupta/vessel-registry-scraper/models"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers"
	"github.com/raushankrgupta/vessel-registry-scraper/scrapers/base"
	"github.com/raushankrgupta/vessel-registry-scraper/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		input, sheet, column, output, failed, driver string
		headless                                     bool
	)

	cmd := &cobra.Command{
		Use:   "vessel-scraper",
		Short: "Scrape vessel registry records listed in a spreadsheet",
		PreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			flags := cmd.Flags()
			if flags.Changed("input") {
				config.InputExcel = input
			}
			if flags.Changed("sheet") {
				config.InputSheet = sheet
			}
			if flags.Changed("column") {
				config.LinksColumn = column
			}
			if flags.Changed("output") {
				config.OutputExcel = output
			}
			if flags.Changed("failed") {
				config.FailedCSV = failed
			}
			if flags.Changed("driver") {
				config.BrowserDriver = driver
			}
			if flags.Changed("headless") {
				config.Headless = headless
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, logger.New("main"))
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "input workbook with the registry links")
	f.StringVar(&sheet, "sheet", "", "sheet to read (default first sheet)")
	f.StringVar(&column, "column", "", "header of the links column")
	f.StringVarP(&output, "output", "o", "", "output workbook")
	f.StringVar(&failed, "failed", "", "CSV file for failed URLs")
	f.StringVar(&driver, "driver", "", "browser driver: chromedp, rod, selenium-chrome, selenium-firefox")
	f.BoolVar(&headless, "headless", true, "run the browser headless")

	return cmd
}

// run logs every setup or output error before returning it, so the
// command exits non-zero with the cause in the run log
func run(ctx context.Context, log *logger.Logger) error {
	runAt := time.Now()

	urls, err := utils.ReadURLs(config.InputExcel, config.InputSheet, config.LinksColumn)
	if err != nil {
		log.Error().Err(err).Str("input", config.InputExcel).Msg("could not read links")
		return err
	}
	log.Info().Int("urls", len(urls)).Str("input", config.InputExcel).Msg("loaded links")

	var onOutcome func(context.Context, int, models.Outcome)
	if config.MongoURI != "" {
		store, err := utils.ConnectVesselStore(ctx, config.MongoURI, config.MongoDatabase, config.MongoCollection)
		if err != nil {
			log.Error().Err(err).Msg("could not connect to MongoDB")
			return err
		}
		defer func() {
			if err := store.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("error closing MongoDB connection")
			}
		}()

		onOutcome = func(ctx context.Context, index int, outcome models.Outcome) {
			if outcome.Kind == models.OutcomeNotFound {
				return
			}
			if err := store.Save(ctx, outcome); err != nil {
				log.Warn().Err(err).Int("index", index).Msg("could not persist result")
			}
		}
	}

	log.Info().Str("driver", config.BrowserDriver).Msg("setting up driver")
	session, err := base.NewSession(ctx, config.SessionOptions())
	if err != nil {
		log.Error().Err(err).Str("driver", config.BrowserDriver).Msg("failed to start browser")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	log.Info().Msg("driver set up")

	registry := scrapers.NewRegistry(config.NavigatorOptions(), log.With("vessel"))
	report := scrapers.RunBatch(ctx, registry, session, urls, scrapers.BatchOptions{
		Log:       log.With("batch"),
		OnOutcome: onOutcome,
	})

	if err := session.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing browser")
	}

	if err := utils.WriteVessels(config.OutputExcel, report.Vessels); err != nil {
		log.Error().Err(err).Str("output", config.OutputExcel).Msg("could not write vessel workbook")
		return err
	}
	log.Info().Int("vessels", len(report.Vessels)).Msgf("Vessel data has been saved to %s", config.OutputExcel)

	if err := utils.WriteFailedURLs(config.FailedCSV, report.Failed); err != nil {
		log.Error().Err(err).Str("output", config.FailedCSV).Msg("could not write failed URLs")
		return err
	}
	log.Info().Int("failed", len(report.Failed)).Msgf("Failed URLs have been saved to %s", config.FailedCSV)

	location := config.OutputExcel
	if config.AWSBucketName != "" {
		if loc, err := uploadOutputs(ctx, runAt); err != nil {
			log.Error().Err(err).Msg("upload to S3 failed")
		} else {
			location = loc
			log.Info().Str("location", loc).Msg("outputs uploaded")
		}
	}

	if config.SendGridAPIKey != "" && config.ReportEmailTo != "" {
		summary := utils.RunSummary{
			Total:    len(report.Outcomes),
			Scraped:  len(report.Vessels),
			NotFound: len(report.NotFound),
			Failed:   report.Failed,
			Output:   location,
		}
		if err := utils.SendEmail(config.SendGridAPIKey, config.ReportEmailFrom, config.ReportEmailTo,
			summary.Subject(), summary.Text(), summary.HTML()); err != nil {
			log.Error().Err(err).Msg("summary email not sent")
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// uploadOutputs copies the workbook and failed list to S3 and returns the
// workbook's location
func uploadOutputs(ctx context.Context, runAt time.Time) (string, error) {
	uploader, err := utils.NewOutputUploader(ctx, config.AWSRegion, config.AWSBucketName)
	if err != nil {
		return "", err
	}
	keys, err := uploader.UploadOutputs(ctx, config.AWSKeyPrefix, runAt, config.OutputExcel, config.FailedCSV)
	if err != nil {
		return "", err
	}
	return uploader.Location(keys[0]), nil
}
