package main

import (
	"context"
	"errors"
	"os"
	"time"

	"bookkeeping/internal/amqp"
	"bookkeeping/internal/cli"
	"bookkeeping/internal/log"
	"bookkeeping/internal/sheets"
	gsheet "bookkeeping/internal/sheets/google"
	"bookkeeping/internal/sheets/memory"
	"bookkeeping/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.OrDefault(nil).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "json"
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	logger.Info("Starting bookkeeping-sync")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required")
		os.Exit(1)
	}

	var exporter sheets.RecordExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(context.Background(), gsheet.FromAppConfig(cfg), logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		exporter = client
	} else {
		logger.Info("Google Sheets disabled, keeping exported rows in memory")
		exporter = memory.New()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Closing AMQP client", log.FieldError, err)
		}
	})

	syncWorker := worker.NewSyncWorker(exporter, logger)
	if err := amqpClient.ConsumeRecordEvents(ctx, syncWorker.HandleRecordEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		_ = amqpClient.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
}
