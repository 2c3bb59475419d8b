package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nutrition-bot/config"
	telegram "nutrition-bot/internal/api"
	app "nutrition-bot/internal/application"
	"nutrition-bot/internal/container"
	"nutrition-bot/internal/domain/port"
	"nutrition-bot/internal/infrastructure/inference"
	"nutrition-bot/internal/infrastructure/storage"
	"nutrition-bot/internal/infrastructure/vision"
	"nutrition-bot/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taxonomy, err := cfg.Taxonomy()
	if err != nil {
		return err
	}

	preprocessor, err := vision.NewPreprocessor(cfg.InputSize, cfg.Normalization)
	if err != nil {
		return fmt.Errorf("create preprocessor: %w", err)
	}

	backend, err := inference.OpenONNX(inference.ONNXConfig{
		ModelPath:   cfg.ModelPath,
		LibraryPath: cfg.LibraryPath,
		InputName:   cfg.InputName,
		OutputName:  cfg.OutputName,
		InputSize:   cfg.InputSize,
		NumClasses:  taxonomy.Size(),
	}, logger)
	if err != nil {
		return fmt.Errorf("open model: %w", err)
	}
	defer inference.Shutdown()

	// Анализатор владеет бэкендом и закрывает его сам, в том числе при ошибке.
	analyzer, err := app.NewAnalyzer(backend, preprocessor, taxonomy, logger)
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	history, err := openHistory(ctx, cfg, logger)
	if err != nil {
		_ = analyzer.Close()
		return err
	}

	var cache port.ResultCache
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := storage.OpenRedis(pingCtx, cfg.RedisAddr)
		cancel()
		if err != nil {
			_ = analyzer.Close()
			return err
		}
		defer client.Close()
		cache = storage.NewRedisResultCache(client, cfg.CacheTTL)
		logger.Info("result cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	appContainer := container.New(storage.NewMemoryUserRepository(), analyzer, history, cache, logger)
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.Error("close analyzer", zap.Error(err))
		}
	}()

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, cfg.HistoryLimit, logger)
	if err != nil {
		return err
	}

	logger.Info("bot is running",
		zap.String("taxonomy", taxonomy.Name),
		zap.String("normalization", string(cfg.Normalization)),
		zap.String("resampler", vision.Resampler),
		zap.Int("input_size", cfg.InputSize))
	return bot.Run(ctx)
}

func openHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.ResultRepository, error) {
	if cfg.DatabaseDSN == "" {
		logger.Info("history kept in memory")
		return storage.NewMemoryResultRepository(storage.DefaultHistoryCap), nil
	}

	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	repo := storage.NewPostgresResultRepository(db)

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repo.AutoMigrate(migrateCtx); err != nil {
		return nil, err
	}
	logger.Info("history stored in postgres")
	return repo, nil
}
