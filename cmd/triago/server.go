package triago

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/triago"
	"github.com/soundprediction/triago/pkg/config"
	triagoLogger "github.com/soundprediction/triago/pkg/logger"
	"github.com/soundprediction/triago/pkg/server"
	"github.com/soundprediction/triago/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Triago HTTP server",
	Long: `Start the Triago HTTP server to provide REST API access to the hospital
emergency knowledge graph.

The server provides endpoints for:
- Hybrid, exact, and emergency search
- Retrieval-context assembly and grounded answers
- Incident reporting and alert decisions
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	// Knowledge-base flags
	serverCmd.Flags().String("kb-path", "", "Path to a YAML knowledge base (default is the builtin hospital dataset)")

	// NLP flags
	serverCmd.Flags().String("nlp-model", "", "Language model for answer generation and incident analysis")
	serverCmd.Flags().String("nlp-api-key", "", "Language-model API key")
	serverCmd.Flags().String("nlp-base-url", "", "Language-model base URL (for OpenAI-compatible endpoints)")

	// Alert store flags
	serverCmd.Flags().String("alert-store", "", "Alert store backend (memory, badger)")
	serverCmd.Flags().String("alert-store-path", "", "Path for the badger alert store")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (errors and search audits)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	// Validate configuration
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	// Initialize Triago
	fmt.Println("Initializing Triago...")
	client, recorder, err := initializeTriago(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize Triago: %w", err)
	}

	// Create and setup server
	srv := server.New(cfg, client, recorder, log)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		if err := client.Close(shutdownCtx); err != nil {
			return fmt.Errorf("client shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Knowledge-base flags
	if cmd.Flags().Changed("kb-path") {
		cfg.KB.Path, _ = cmd.Flags().GetString("kb-path")
	}

	// NLP flags: providing a key on the command line turns generation on.
	if cmd.Flags().Changed("nlp-api-key") {
		cfg.NLP.APIKey, _ = cmd.Flags().GetString("nlp-api-key")
		cfg.NLP.Enabled = cfg.NLP.APIKey != ""
	}
	if cmd.Flags().Changed("nlp-model") {
		cfg.NLP.Model, _ = cmd.Flags().GetString("nlp-model")
	}
	if cmd.Flags().Changed("nlp-base-url") {
		cfg.NLP.BaseURL, _ = cmd.Flags().GetString("nlp-base-url")
	}

	// Alert store flags
	if cmd.Flags().Changed("alert-store") {
		cfg.AlertStore.Type, _ = cmd.Flags().GetString("alert-store")
	}
	if cmd.Flags().Changed("alert-store-path") {
		cfg.AlertStore.Path, _ = cmd.Flags().GetString("alert-store-path")
	}

	// Telemetry flags: setting a path turns telemetry on.
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
		cfg.Telemetry.Enabled = cfg.Telemetry.ParquetPath != ""
	}
}

func validateServerConfig(cfg *config.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %s", cfg.Server.Mode)
	}
	return nil
}

// buildLogger builds a colored stderr logger, wrapped with the Parquet
// error-persistence handler when telemetry is enabled.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	colorHandler := triagoLogger.NewColorHandler(os.Stderr, parseLogLevel(cfg.Log.Level))
	if !cfg.Telemetry.Enabled {
		return slog.New(colorHandler), nil
	}

	parquetHandler, err := telemetry.NewParquetHandler(colorHandler, cfg.Telemetry.ParquetPath)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize error tracking: %v\n", err)
		return slog.New(colorHandler), nil
	}
	fmt.Printf("Error tracking enabled at: %s\n", cfg.Telemetry.ParquetPath)
	return slog.New(parquetHandler), nil
}

func initializeTriago(cfg *config.Config, log *slog.Logger) (*triago.Client, *telemetry.SearchRecorder, error) {
	client, err := triago.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var recorder *telemetry.SearchRecorder
	if cfg.Telemetry.Enabled {
		recorder, err = telemetry.NewSearchRecorder(cfg.Telemetry.ParquetPath)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize search auditing: %v\n", err)
		} else {
			fmt.Printf("Search auditing enabled at: %s\n", cfg.Telemetry.ParquetPath)
		}
	}

	stats := client.Stats(context.Background())
	fmt.Printf("Triago initialized successfully with %d nodes and %d edges\n", stats.NodeCount, stats.EdgeCount)
	if cfg.NLP.Enabled {
		fmt.Printf("NLP provider: %s, model: %s\n", cfg.NLP.Provider, cfg.NLP.Model)
	}

	return client, recorder, nil
}
