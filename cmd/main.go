package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdiallo/sikabooks/internal/coa"
	"github.com/kdiallo/sikabooks/internal/httpapi"
	"github.com/kdiallo/sikabooks/internal/ledger"
	"github.com/kdiallo/sikabooks/internal/service/journal"
	"github.com/kdiallo/sikabooks/internal/storage/memory"
	pgstore "github.com/kdiallo/sikabooks/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	chart := coa.Default()

	var store httpapi.Store
	var closeFn func()

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = func() { pg.Close() }
		store = pg
		logger.Info("storage backend: postgres")
	} else {
		store = memory.New()
		logger.Info("storage backend: memory")
	}

	if devSeedEnabled() {
		if err := seedDev(ctx, store, chart); err != nil {
			logger.Error("dev seed failed", "err", err)
		} else {
			logger.Info("dev seed posted")
		}
	}

	srv := &http.Server{
		Addr:              listenAddr(),
		Handler:           httpapi.New(store, chart, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sikabooks service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

func listenAddr() string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":8080"
}

func devSeedEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED"))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// seedDev posts a small opening scenario through the journal service so
// reports have data to show in local development. Works against any backend.
func seedDev(ctx context.Context, store httpapi.Store, chart *coa.Chart) error {
	svc := journal.New(store, store, chart)
	day := func(d int) time.Time {
		return time.Date(time.Now().Year(), time.January, d, 0, 0, 0, 0, time.UTC)
	}
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	groups := []struct {
		date        time.Time
		description string
		lines       []journal.Line
	}{
		{day(1), "Apport en capital", []journal.Line{
			{AccountNumber: 512, Debit: amount("500000")},
			{AccountNumber: 101, Credit: amount("500000")},
		}},
		{day(5), "Achat de marchandises", []journal.Line{
			{AccountNumber: 601, Debit: amount("120000")},
			{AccountNumber: 401, Credit: amount("120000")},
		}},
		{day(12), "Ventes au comptant", []journal.Line{
			{AccountNumber: 571, Debit: amount("180000")},
			{AccountNumber: 701, Credit: amount("180000")},
		}},
		{day(20), "Loyer du mois", []journal.Line{
			{AccountNumber: 622, Debit: amount("45000")},
			{AccountNumber: 512, Credit: amount("45000")},
		}},
	}
	for _, g := range groups {
		if _, err := svc.PostGroup(ctx, g.date, g.description, ledger.SourceManual, uuid.Nil, g.lines); err != nil {
			return err
		}
	}
	return nil
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
