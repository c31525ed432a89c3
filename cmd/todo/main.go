package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/script"
	"taskdeck/internal/session"
	"taskdeck/internal/storage"
	"taskdeck/internal/ui"
)

var (
	flagConfig   string
	flagLogLevel string
	flagJournal  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Sorted tasks, an urgent queue and a category tree, with undo",
		Long: `todo keeps the tasks you add ordered by priority and due date, queues the
urgent ones, files them under categories, and lets you undo and redo changes.
Tasks live for the duration of the session.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: $TASKDECK_CONFIG or ~/.config/taskdeck/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "Override journal database path")

	rootCmd.AddCommand(scriptCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script FILE",
		Short: "Replay a TOML script of add/remove/modify/undo/redo steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := script.Load(args[0])
			if err != nil {
				return err
			}
			env, err := setup(os.Stderr)
			if err != nil {
				return err
			}
			defer env.close()
			return script.Run(env.sess, sc, cmd.OutOrStdout())
		},
	}
}

func runTUI() error {
	// The terminal belongs to bubbletea; logs only go to log_file.
	env, err := setup(io.Discard)
	if err != nil {
		return err
	}
	defer env.close()
	if err := ui.Run(env.sess, env.cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

type environment struct {
	cfg     config.Config
	sess    *session.Session
	store   *storage.Store
	logFile io.Closer
	logger  *log.Logger
}

func setup(logFallback io.Writer) (*environment, error) {
	configPath := flagConfig
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagJournal != "" {
		cfg.JournalPath = flagJournal
	}

	logger, logFile, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		File:     cfg.LogFile,
		Fallback: logFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := storage.Open(cfg.JournalPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	sess := session.New(session.OptionsFromConfig(cfg, store, logger))
	logger.Debug("session started", "config", configPath, "journal", cfg.JournalPath, "tree_removal", cfg.TreeRemoval)
	return &environment{cfg: cfg, sess: sess, store: store, logFile: logFile, logger: logger}, nil
}

func (e *environment) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close journal", "err", err)
	}
	e.logFile.Close()
}
