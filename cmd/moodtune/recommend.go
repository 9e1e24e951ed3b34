package main

import (
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/moodtune/internal/app"
)

func newRecommendCmd(g *globals) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend <emotion>",
		Short: "Recommend songs for an emotion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *g.cfg
			cfg.History.Path = ""
			a, err := app.New(&cfg, g.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.Orchestrator.Recommend(cmd.Context(), args[0], limit)
			g.printer(cmd).Songs(args[0], res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of songs to return")
	return cmd
}
