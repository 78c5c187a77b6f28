package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/smart-ats/internal/analysis"
	"github.com/jonathan/smart-ats/internal/config"
	"github.com/jonathan/smart-ats/internal/llm"
	"github.com/jonathan/smart-ats/internal/logging"
	"github.com/jonathan/smart-ats/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start an HTTP server that serves the analyzer page and the JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a JSON or YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig, os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}

	// A missing credential is not fatal: the page renders with a notice and
	// analyze requests fail until the key is set.
	var (
		client llm.Client
		notice string
	)
	if credErr := cfg.CredentialError(); credErr != nil {
		logger.WithField("env", cfg.CredentialEnvVar()).Warn("Model credential is missing")
		notice = credErr.Error()
	} else {
		llmCfg := llm.ConfigFor(cfg.Provider, cfg.Model)
		client, err = llm.NewClient(context.Background(), llmCfg, cfg.APIKey(), llm.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to create model client: %w", err)
		}
		defer client.Close()
	}

	srv, err := server.New(server.Config{
		Port:             cfg.Port,
		Analyzer:         analysis.NewAnalyzer(client, logger),
		Logger:           logger,
		CredentialNotice: notice,
		SessionSecret:    cfg.SessionSecret,
		SessionTTL:       time.Duration(cfg.SessionTTLHours) * time.Hour,
		CSRFKey:          cfg.CSRFKey,
		CSRFSecure:       cfg.CSRFSecure,
		MaxUploadBytes:   cfg.MaxUploadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
