package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cuentaescolar133-star/Cat.planner/cmd/michi/chat"
	"github.com/cuentaescolar133-star/Cat.planner/internal/companion"
	"github.com/cuentaescolar133-star/Cat.planner/internal/config"
	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
	"github.com/cuentaescolar133-star/Cat.planner/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "michi",
	Short: "Michi - planner de hábitos con un compañero gatuno",
	Long: `Michi is a personal planner with a virtual cat companion.

Track daily tasks and habits, earn points for finishing them, dress up the
cat, and talk to Michi (a motivating, Spanish-speaking tabby backed by the
Gemini API) whenever you need a push.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode logs to a file so zap output does not fight
		// the TUI for the terminal.
		if cmd.Name() == "michi" {
			return nil
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.michi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot database path (overrides config)")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(accessoryCmd)
	rootCmd.AddCommand(resetCmd)
}

// app bundles the wired storage stack for one command invocation.
type app struct {
	cfg   *config.Config
	local *store.Local
	store *state.Store
}

// openApp loads config, opens the snapshot database and hydrates the state
// store, falling back to the default state when nothing (valid) is stored.
func openApp() (*app, error) {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".michi", "config.yaml")
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dbFile := cfg.DatabasePath()
	if dbPath != "" {
		dbFile = dbPath
	}

	local, err := store.NewLocal(dbFile, logger)
	if err != nil {
		return nil, err
	}

	snap, ok, err := local.Load()
	if err != nil {
		local.Close()
		return nil, err
	}
	if !ok {
		snap = state.Default()
	}

	return &app{
		cfg:   cfg,
		local: local,
		store: state.NewStore(snap, local, logger),
	}, nil
}

// close drains pending saves, stops the store's writer and releases the
// database.
func (a *app) close() {
	a.store.Close()
	_ = a.local.Close()
}

// newGenerator wires the Gemini generator, degrading to Unavailable (chat
// answers with the canned fallback) when no key is configured.
func newGenerator(ctx context.Context, cfg *config.Config) companion.Generator {
	if cfg.LLM.APIKey == "" {
		if logger != nil {
			logger.Warn("GEMINI_API_KEY not set; chat will answer with the fallback message")
		}
		return companion.Unavailable{}
	}
	gen, err := companion.NewGeminiGenerator(ctx, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.ThinkingBudget)
	if err != nil {
		if logger != nil {
			logger.Warn("gemini client init failed; chat will answer with the fallback message", zap.Error(err))
		}
		return companion.Unavailable{}
	}
	return gen
}

// runInteractive launches the Bubble Tea interface.
func runInteractive() error {
	// Interactive logger writes to the data dir, not the terminal.
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".michi", "config.yaml")
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0755); err == nil {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		zcfg.OutputPaths = []string{filepath.Join(cfg.Data.Dir, cfg.Logging.File)}
		zcfg.ErrorOutputPaths = zcfg.OutputPaths
		if l, err := zcfg.Build(); err == nil {
			logger = l
			defer logger.Sync()
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	gen := newGenerator(context.Background(), a.cfg)
	builder := companion.NewBuilder(gen, logger)

	m := chat.New(chat.Config{
		Store:     a.store,
		Companion: builder,
		Logger:    logger,
		Timeout:   a.cfg.LLMTimeout(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
