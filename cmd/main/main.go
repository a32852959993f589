package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reqsift/reqsift"
	"github.com/reqsift/reqsift/adapter/excel"
	"github.com/reqsift/reqsift/adapter/filestorage"
	"github.com/reqsift/reqsift/adapter/nlp"
	"github.com/reqsift/reqsift/adapter/pdf"
	redisadapter "github.com/reqsift/reqsift/adapter/redis"
	"github.com/reqsift/reqsift/adapter/rest"
	"github.com/reqsift/reqsift/adapter/store"
	"github.com/reqsift/reqsift/internal/config"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		logger.Sugar().Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Sugar().Fatal(err)
	}

	if err := reqsift.Migrate(db, cfg.MigrationsPath); err != nil {
		logger.Sugar().Fatal(err)
	}

	splitter, err := nlp.New(nlp.WithLogger(logger))
	if err != nil {
		logger.Sugar().Fatal(err)
	}

	pdfAdapter := pdf.New(pdf.WithLogger(logger))
	storeAdapter := store.New(db, store.WithLogger(logger))

	storage, err := filestorage.New(
		filestorage.WithDir(cfg.StorageDir),
		filestorage.WithLogger(logger),
	)
	if err != nil {
		logger.Sugar().Fatal(err)
	}

	options := []reqsift.Option{
		reqsift.WithLogger(logger),
		reqsift.WithKeywords(reqsift.NewKeywordSet(cfg.Keywords...)),
		reqsift.WithLimits(reqsift.Limits{
			MinWords:    cfg.MinWords,
			MaxWords:    cfg.MaxWords,
			MaxCoverage: cfg.MaxCoverage,
		}),
		reqsift.WithFileStorage(storage),
		reqsift.WithExporter(excel.New(excel.WithLogger(logger))),
	}

	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()

		options = append(options, reqsift.WithEventSink(
			redisadapter.New(redisClient, redisadapter.WithLogger(logger)),
		))
	}

	rs := reqsift.New(splitter, pdfAdapter, storeAdapter, options...)

	mux := http.NewServeMux()
	restAdapter := rest.New(rs, rest.WithLogger(logger))
	restAdapter.RegisterHandlers(mux)

	httpServer := &http.Server{
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		Addr:              cfg.Address(),
		Handler:           mux,
	}

	logger.Sugar().With("address", cfg.Address()).Info("listening")

	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("HTTP server error: %v", err)
		}
		logger.Sugar().Info("stopped serving new connections")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("HTTP shutdown error: %v", err)
	}
	logger.Sugar().Info("graceful shutdown complete")
}

func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
