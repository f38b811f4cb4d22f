// Command medreport runs the clinical report analysis service: an HTTP API
// that accepts lab/medical report uploads, extracts structured test readings
// and a plain-language summary, and stores the results per owner.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/medreport/analysis"
	"github.com/hazyhaar/medreport/docstore"
	"github.com/hazyhaar/medreport/pdftext"
	"github.com/hazyhaar/medreport/server"
)

func main() {
	configPath := flag.String("config", "medreport.yaml", "path to YAML config")
	flag.Parse()

	logLevel := env("LOG_LEVEL", "info")
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if listen := os.Getenv("LISTEN"); listen != "" {
		cfg.Listen = listen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lexicon := analysis.DefaultLexicon()
	if cfg.LexiconPath != "" {
		lexicon, err = analysis.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			slog.Error("load lexicon", "error", err)
			os.Exit(1)
		}
		slog.Info("lexicon loaded", "path", cfg.LexiconPath, "tests", lexicon.Len())
	}

	store, err := docstore.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open document store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	pipe := analysis.New(analysis.Config{
		Extractor: pdftext.New(),
		MaxPages:  cfg.MaxPages,
		Lexicon:   lexicon,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(cfg, pipe, store, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("medreport listening", "addr", cfg.Listen, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("serve", "error", err)
		os.Exit(1)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
