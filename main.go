package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/krishkalaria12/imageworld/archive"
	"github.com/krishkalaria12/imageworld/auth"
	"github.com/krishkalaria12/imageworld/config"
	"github.com/krishkalaria12/imageworld/database"
	"github.com/krishkalaria12/imageworld/logger"
	"github.com/krishkalaria12/imageworld/repository"
	"github.com/krishkalaria12/imageworld/router"
	"github.com/krishkalaria12/imageworld/transform"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.UsingDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is not set, credentials are signed with the built-in default secret")
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// close the database connection
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("error closing the database connection")
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	accounts := repository.NewAccountRepo(db)
	logs := repository.NewProcessingLogRepo(db)

	authService := auth.NewService(accounts, auth.Options{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.TokenIssuer,
		URL:       cfg.AppURL,
		AvatarDir: cfg.AvatarDir,
		Logger:    log,
	})

	archiver, closeArchive, err := newArchiver(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up result archive")
	}
	defer closeArchive()

	app := router.New(router.Deps{
		Auth:           authService,
		Accounts:       accounts,
		Logs:           logs,
		Transformer:    transform.NewEngine(),
		Archiver:       archiver,
		Logger:         log,
		BodyLimitMB:    cfg.BodyLimitMB,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server is listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// newArchiver returns the GCS archive when a bucket is configured and a no-op otherwise.
func newArchiver(ctx context.Context, cfg *config.Settings, log zerolog.Logger) (archive.Archiver, func(), error) {
	if !cfg.ArchiveEnabled() {
		return archive.Noop{}, func() {}, nil
	}

	gcs, err := archive.NewGCSArchiver(ctx, archive.GCSOptions{
		Bucket:  cfg.ArchiveBucket,
		Prefix:  cfg.ArchivePrefix,
		Timeout: cfg.ArchiveTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("bucket", cfg.ArchiveBucket).Msg("archiving processed results")
	return gcs, func() {
		if err := gcs.Close(); err != nil {
			log.Error().Err(err).Msg("error closing the archive client")
		}
	}, nil
}
