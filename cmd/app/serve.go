package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baggage/cmd"
	"baggage/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and background jobs",
	RunE: func(c *cobra.Command, _ []string) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		defer logger.Sync()
		log := logger.Get()

		root, err := cmd.NewCompositionRoot(*cfg, log)
		if err != nil {
			return err
		}
		defer root.Close()

		if cfg.Database.AutoMigrate {
			if err = root.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		jobManager := root.CreateJobManager()
		if err = jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()

		e := root.CreateRouter()
		serverErrors := make(chan error, 1)
		go func() {
			log.Info("starting HTTP server",
				zap.Int("port", cfg.HTTPPort),
				zap.String("store", cfg.StoreDriver))
			serverErrors <- e.Start(fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort))
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err = <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case sig := <-shutdown:
			log.Info("shutting down", zap.Stringer("signal", sig))
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = e.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown did not complete", zap.Error(err))
			return e.Close()
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(c *cobra.Command, _ []string) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		defer logger.Sync()

		root, err := cmd.NewCompositionRoot(*cfg, logger.Get())
		if err != nil {
			return err
		}
		defer root.Close()

		if err = root.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Get().Info("schema is up to date", zap.String("store", cfg.StoreDriver))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "baggage version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func loadConfig(c *cobra.Command) (*cmd.Config, error) {
	dir, err := c.Flags().GetString("config-dir")
	if err != nil {
		return nil, err
	}

	cfg, err := cmd.LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	if err = logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
