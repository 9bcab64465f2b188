package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/filmfusion/filmfusion/compare"
	"github.com/filmfusion/filmfusion/config"
	"github.com/filmfusion/filmfusion/letterboxd"
	"github.com/filmfusion/filmfusion/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the build information from main
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *letterboxd.Client
	store      *storage.Store
	operations *compare.Operations
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "filmfusion",
	Short: "Compare Letterboxd watchlists between two users",
	Long: `filmfusion retrieves two users' public Letterboxd watchlists and computes
the movies they have in common, with overlap statistics. Watchlists are
scraped page by page with bounded retries and rate-limit friendly pacing.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration, logger and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Letterboxd client
	opts := []letterboxd.Option{
		letterboxd.WithTimeout(cfg.Letterboxd.Timeout),
		letterboxd.WithMaxRetries(cfg.Letterboxd.MaxRetries),
		letterboxd.WithRetryWaitTime(cfg.Letterboxd.RetryWait),
		letterboxd.WithPageDelay(cfg.Letterboxd.PageDelay),
	}
	if cfg.Letterboxd.CloudflareBypass {
		opts = append(opts, letterboxd.WithCloudflareBypass())
	}

	client, err = letterboxd.NewClient(cfg.Letterboxd.BaseURL, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Letterboxd client: %w", err)
	}

	operations = compare.NewOperations(client, logger)

	// Open the database if enabled; comparisons work without it
	if cfg.Database.Enabled {
		store, err = storage.Open(cfg.Database.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open database, continuing without persistence")
		} else {
			operations.SetStore(store)
		}
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity to Letterboxd and the local database",
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("Testing connection to %s...\n", cfg.Letterboxd.BaseURL)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach Letterboxd: %w", err)
	}
	fmt.Println("✓ Letterboxd reachable!")

	if store != nil {
		fmt.Printf("\nTesting database at %s...\n", cfg.Database.Path)
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach database: %w", err)
		}
		fmt.Println("✓ Database reachable!")
	} else {
		fmt.Println("\nDatabase: Disabled")
	}

	return nil
}
