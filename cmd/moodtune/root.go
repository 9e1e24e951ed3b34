package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/config"
	"github.com/ewilliams-labs/moodtune/internal/logger"
)

type globals struct {
	noColor bool
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "moodtune",
		Short: "Emotion classification and song recommendations",
		Long: `moodtune predicts the emotion of a short text and recommends songs for it.

Example usage:
  moodtune classify "I can't stop smiling today"
  moodtune recommend sadness --limit 3
  moodtune serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init()
		},
	}
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newClassifyCmd(g), newRecommendCmd(g), newServeCmd(g))
	return root
}

func (g *globals) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if g.verbose {
		level = "debug"
	}
	l, err := logger.NewLogger(cfg.Env, level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	g.cfg, g.logger = cfg, l
	return nil
}

func (g *globals) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(cmd.OutOrStdout(), !g.noColor)
}
