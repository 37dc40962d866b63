package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ggsatyam/meowpass/internal/config"
)

const version = "0.2.0"

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meowpass",
	Short: "Personalized password wordlist generator for security research",
	Long: `meowpass turns facts about a target (names, pets, dates, places) into a
candidate password list: combined base words, rule-based mangling, and an
optional LLM pass that proposes human-like passwords.

Run without arguments to start the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		switch {
		case verbose:
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		case cmd == cmd.Root():
			// The interactive menu reports through panels.
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zc.Build()
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
		resolved, err := config.ResolveConfig(config.ResolveOptions{ConfigPath: configPath})
		if err != nil {
			return err
		}
		s := newSession(os.Stdin, cmd.OutOrStdout(), resolved, logger)
		return s.run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the meowpass version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "meowpass %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.meowpass/config.yaml)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
