package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/moodtune/internal/app"
)

func newClassifyCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text...>",
		Short: "Predict the emotion of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *g.cfg
			cfg.History.Path = ""
			a, err := app.New(&cfg, g.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			pred, err := a.Orchestrator.Predict(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			g.printer(cmd).Prediction(pred)
			return nil
		},
	}
}
