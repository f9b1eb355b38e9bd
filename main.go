package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/seqportal/internal/util"
	"github.com/yumyai/seqportal/logger"
	"github.com/yumyai/seqportal/pkg/config"
	mydb "github.com/yumyai/seqportal/pkg/db"
	"github.com/yumyai/seqportal/pkg/handler"
	"github.com/yumyai/seqportal/pkg/lapis"
	"github.com/yumyai/seqportal/pkg/middle"
	"github.com/yumyai/seqportal/pkg/organism"

	_ "modernc.org/sqlite"
)

func main() {

	VERSION := "0.1.0"

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Establish logger
	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if cfg.DotEnvErr != nil {
		logger.Warn("No .env found, using local environment", zap.Error(cfg.DotEnvErr))
	}

	if !util.DirExists(cfg.DataDir) {
		logger.Warn("Data directory does not exist", zap.String("SEQPORTAL_DATA", cfg.DataDir))
	}

	if !util.FileExists(cfg.OrganismConfig) {
		logger.Fatal("Organism config not found", zap.String("ORGANISM_CONFIG", cfg.OrganismConfig))
	}
	organisms, err := organism.Load(cfg.OrganismConfig)
	if err != nil {
		logger.Fatal("Loading organisms failed", zap.String("path", cfg.OrganismConfig), zap.Error(err))
	}

	// Connect to db
	if cfg.SelectionDB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SelectionDB), 0o755); err != nil {
			logger.Fatal("Creating database directory failed", zap.Error(err))
		}
	}
	db, err := mydb.Open(cfg.SelectionDB)
	if err != nil {
		logger.Fatal("Opening database failed", zap.String("DB_LOC", cfg.SelectionDB), zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	selections, err := mydb.NewSelectionStore(ctx, db)
	cancel()
	if err != nil {
		logger.Fatal("Preparing selection store failed", zap.Error(err))
	}

	metrics := middle.NewMetrics()
	app := &handler.AppContext{
		Organisms:    organisms,
		Lapis:        lapis.NewClient(cfg.LapisTimeout),
		Selections:   selections,
		Metrics:      metrics,
		MaxURLLength: cfg.MaxURLLength,
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open database on", zap.String("DB_LOC", cfg.SelectionDB))
	logger.Info("Serving organisms", zap.Strings("organisms", organisms.Keys()))

	mux := handler.NewRouter(app)

	// Apply middleware
	requestLogger := logger.With(zap.String("component", "http"))
	h := middle.Chain(mux,
		middle.RequestIDMiddleware(requestLogger),
		middle.MetricsMiddleware(metrics, mux),
		middle.LoggingMiddleware(requestLogger),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Error starting server:", zap.String("error message", err.Error()))
	}
}
