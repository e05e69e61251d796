package main

import (
	"github.com/spf13/cobra"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

var (
	leadersSeason string
	leadersTop    int
	leadersKind   string
	leadersStat   string
)

var leadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "Show the dashboard leaderboards or rank one stat",
	Example: `  ncaa-explorer leaders --season 2024
  ncaa-explorer leaders --kind teams --stat Team_BARTHAG --top 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := leadersQuery{Stat: leadersStat, Season: leadersSeason, Top: leadersTop}
		if leadersStat != "" {
			kind, err := statKind(leadersKind)
			if err != nil {
				return err
			}
			q.Kind = kind
		}

		env, err := initExplore(cmd.Context(), "leaders", false)
		if err != nil {
			return err
		}
		defer env.Close()

		boards, err := runLeaders(env, q)
		if err != nil {
			return err
		}
		return printJSON(stdout, boards)
	},
}

func init() {
	leadersCmd.Flags().StringVar(&leadersSeason, "season", "", "restrict to one season (default all seasons)")
	leadersCmd.Flags().IntVar(&leadersTop, "top", 0, "entries per board (default from config)")
	leadersCmd.Flags().StringVar(&leadersKind, "kind", string(model.KindPlayers), "record set for --stat: players or teams")
	leadersCmd.Flags().StringVar(&leadersStat, "stat", "", "rank a single stat instead of the dashboard")
	rootCmd.AddCommand(leadersCmd)
}
