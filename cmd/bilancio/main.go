package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/config"
	apphttp "bilancio/internal/http"
	applog "bilancio/internal/log"
	"bilancio/internal/mail"
	gmailsrc "bilancio/internal/mail/gmail"
	mailmem "bilancio/internal/mail/memory"
	"bilancio/internal/services"
	ports "bilancio/internal/sheets"
	gsheet "bilancio/internal/sheets/google"
	sheetmem "bilancio/internal/sheets/memory"
	"bilancio/internal/storage"
)

const reportCacheTTL = 60 * time.Second

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var (
		ledgerReader   ports.LedgerReader
		budgetReader   ports.BudgetReader
		categoryReader ports.CategoryReader
	)
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			LedgerSheet:   cfg.LedgerSheetName,
			BudgetSheet:   cfg.BudgetSheetName,
			CategorySheet: cfg.CategorySheetName,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		ledgerReader, budgetReader, categoryReader = cli, cli, cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		store := sheetmem.New()
		ledgerReader, budgetReader, categoryReader = store, store, store
		logger.Info("Initialized memory data backend")
	}

	var mailbox mail.Source
	switch cfg.MailBackend {
	case "gmail":
		src, err := gmailsrc.New(ctx, gmailsrc.Options{
			User:  cfg.GmailUser,
			Query: cfg.BankToken,
		})
		if err != nil {
			logger.Error("Failed to initialize Gmail source", applog.FieldError, err)
			os.Exit(1)
		}
		mailbox = src
		logger.Info("Initialized Gmail mail backend", "user", cfg.GmailUser)
	default:
		mailbox = mailmem.New()
		logger.Info("Initialized memory mail backend")
	}

	// AMQP is optional at startup: without it, transactions stay staged and
	// the worker's catch-up pass syncs them.
	var publisher services.SyncPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, sync messages disabled", applog.FieldError, err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	importService := services.NewImportService(mailbox, categoryReader, ledgerReader, repo, publisher,
		cfg.BankToken, cfg.FetchLimit, logger)
	reportService := services.NewReportService(ledgerReader, budgetReader, reportCacheTTL, logger)

	srv := apphttp.NewServer(":"+cfg.Port, importService, reportService, repo, categoryReader)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	// Periodic mailbox ingestion.
	go func() {
		ticker := time.NewTicker(cfg.IngestInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result, err := importService.ImportFromMail(ctx)
				if err != nil {
					logger.Error("Periodic import failed", applog.FieldError, err)
					continue
				}
				if result.Imported+result.Unrecognized > 0 {
					reportService.InvalidateCaches()
				}
			}
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting bilancio server",
		"port", cfg.Port,
		"data_backend", cfg.DataBackend,
		"mail_backend", cfg.MailBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
