package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notekit/chartparse/internal/api"
	"github.com/notekit/chartparse/internal/config"
	"github.com/notekit/chartparse/internal/entity"
	"github.com/notekit/chartparse/internal/pipeline"
	"github.com/notekit/chartparse/internal/section"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Static lookup structures: built once, read-only for the process
	// lifetime, shared by every parse.
	table, err := section.LoadSynonymTable(cfg.SynonymsFile)
	if err != nil {
		log.Error("invalid synonyms file", "error", err)
		os.Exit(1)
	}
	lexicon := entity.NewLexicon()

	parser := pipeline.NewParser(table, lexicon, log, pipeline.Options{
		Timeout:    cfg.ParseTimeout,
		ChunkLines: cfg.ChunkLines,
		MaxScan:    cfg.MaxScanBytes,
	})
	stats := pipeline.NewParseStats(time.Hour)

	orch := pipeline.NewOrchestrator(parser, stats, log, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL)
	orch.Start(ctx)

	srv := api.NewServer(orch, nil, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting chartparse", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
