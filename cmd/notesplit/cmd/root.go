package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"notesplit/internal/adapters/filesystem"
	"notesplit/internal/adapters/sqlite"
	"notesplit/internal/config"
)

var (
	configPath  string
	vaultPath   string
	maxSegments int
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notesplit [note]",
	Short: "Split long Obsidian notes into atomic linked notes",
	Long: `notesplit asks a language model to divide a note into labeled line
ranges, picks the most self-contained ones, and moves each into a new note
of its own. A "- sent to [[name]]" line is left where the content was.

The source note is rewritten once at the end of a run, and only if at
least one segment was extracted.

Run without a subcommand to process the configured note.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		// A missing .env file is fine
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("vault") {
			cfg.VaultPath = vaultPath
		}
		if cmd.Flags().Changed("max-segments") {
			cfg.MaxSegments = maxSegments
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logger.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPipeline,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Path(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "v", config.DefaultVaultPath, "path to the vault")
	rootCmd.PersistentFlags().IntVarP(&maxSegments, "max-segments", "n", config.DefaultMaxSegments, "maximum segments to extract per run")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	addRunFlags(rootCmd)
}

// newLogger builds a console logger on stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zcfg.DisableStacktrace = !verbose
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zcfg.Build()
}

// newStore returns the note store for the configured vault
func newStore() *filesystem.Store {
	return filesystem.NewStore(cfg.Vault(), cfg.NoteExtension)
}

// openIndex opens the link index and brings it up to date
func openIndex() (*sqlite.Index, error) {
	idx := sqlite.NewIndex(cfg.Index())
	if err := idx.Open(cfg.Vault()); err != nil {
		return nil, err
	}

	var err error
	if idx.NeedsFullRebuild() {
		_, err = idx.SyncFull()
	} else {
		_, err = idx.SyncIncremental()
	}
	if err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to sync link index: %w", err)
	}
	return idx, nil
}
