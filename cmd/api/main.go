package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"apartments/internal/config"
	"apartments/internal/database"
	"apartments/internal/imagestore"
	"apartments/internal/pkg/logger"
	"apartments/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "api",
		Short:        "Apartment listings HTTP API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  runMigrate,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "apartments-api")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{Debug: cfg.AppDebug, Log: log})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("database migrated")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Dependencies{
		DB:     db,
		Store:  store,
		Log:    log,
		Config: cfg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting api",
		zap.String("env", cfg.AppEnv),
		zap.String("version", cfg.AppVersion),
		zap.String("image_store", cfg.ImageStore),
	)
	return server.Run(ctx, cfg.HTTPAddr, router, cfg.ShutdownTimeout, log)
}

func newStore(cfg *config.Config, log *zap.Logger) (imagestore.Store, error) {
	if cfg.ImageStore == config.ImageStoreCloudinary {
		return imagestore.NewCloudinary(imagestore.CloudinaryConfig{
			URL:       cfg.Cloudinary.URL,
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
		}, log)
	}
	log.Warn("cloudinary not configured, storing images on local disk", zap.String("dir", cfg.Upload.Dir))
	return imagestore.NewLocal(cfg.Upload.Dir, cfg.Upload.URLBase, log)
}
