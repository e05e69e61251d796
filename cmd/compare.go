package main

import (
	"github.com/spf13/cobra"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/stats"
)

var (
	compareStat    string
	compareSeason  string
	compareSuggest string
)

var compareCmd = &cobra.Command{
	Use:   "compare <players|teams> [name-or-slug...]",
	Short: "Compare players or teams side by side",
	Example: `  ncaa-explorer compare players "Cooper Flagg" "Johni Broome" --stat PTS
  ncaa-explorer compare teams duke auburn --season 2024
  ncaa-explorer compare players --suggest flagg`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := statKind(args[0])
		if err != nil {
			return err
		}

		env, err := initExplore(cmd.Context(), "compare", false)
		if err != nil {
			return err
		}
		defer env.Close()

		if cmd.Flags().Changed("suggest") {
			return printJSON(stdout, stats.Suggestions(kind, env.Data.Of(kind).Records, compareSuggest))
		}

		cmp, err := runCompare(env, kind, compareQuery{Refs: args[1:], Stat: compareStat, Season: compareSeason})
		if err != nil {
			return err
		}
		return printJSON(stdout, cmp)
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareStat, "stat", "", "stat to chart by season (default points for players, win % for teams)")
	compareCmd.Flags().StringVar(&compareSeason, "season", "", "compare one season instead of career averages")
	compareCmd.Flags().StringVar(&compareSuggest, "suggest", "", "list entities matching a search term instead of comparing")
	rootCmd.AddCommand(compareCmd)
}
