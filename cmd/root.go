package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andresmejia3/labelguard/internal/config"
	"github.com/andresmejia3/labelguard/internal/observability"
	"github.com/andresmejia3/labelguard/internal/store"
)

// Options holds shared configuration for the check and ingest commands
type Options struct {
	LabelsDir  string
	Extension  string
	Strict     bool
	MaxClassID int
}

var (
	// DB is the global database connection shared by subcommands that persist
	DB *store.Store
	// dbURL is the connection string
	dbURL string
	// cfgPath points at the optional TOML config
	cfgPath string
	// Cfg holds the loaded file config; flags override it per command
	Cfg config.Config
	// Log is the process logger
	Log zerolog.Logger

	verbose bool
)

// Version is the application version.
const Version = "0.1.0"

// needsDB marks commands that talk to Postgres so `check` stays usable
// without a database.
const needsDB = "requires-db"

var rootCmd = &cobra.Command{
	Use:     "labelguard",
	Short:   "YOLO Segmentation Label Validation & Ingestion Engine",
	Version: Version, // This enables the --version flag
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		Log = observability.InitLogger("labelguard", verbose)

		var err error
		Cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		if cmd.Annotations[needsDB] == "" {
			return nil
		}

		// If no flag was provided, try to build the connection string from the environment
		if dbURL == "" {
			if host := os.Getenv("POSTGRES_HOST"); host != "" {
				user := os.Getenv("POSTGRES_USER")
				pass := os.Getenv("POSTGRES_PASSWORD")
				name := os.Getenv("POSTGRES_DB")
				port := os.Getenv("POSTGRES_PORT")
				if port == "" {
					port = "5432"
				}
				dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
			} else {
				// Fallback to local default if no env vars are present
				dbURL = "postgres://localhost:5432/labelguard"
			}
		}

		// Use the command's context (which will be cancellable) for the connection
		DB, err = store.New(cmd.Context(), dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			// Use Background here because the main context might be cancelled already (due to Ctrl+C)
			// and we still need to send the "Close" command to the DB.
			DB.Close(context.Background())
		}
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This tells Cobra not to print the version in the help text, which is cleaner.
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string (default: postgres://localhost:5432/labelguard)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "labelguard.toml", "Path to optional TOML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
