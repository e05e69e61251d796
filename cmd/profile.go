package main

import (
	"github.com/spf13/cobra"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

var (
	profileStat   string
	profileSeason string
)

var profileCmd = &cobra.Command{
	Use:   "profile <player|team> <slug>",
	Short: "Show a player or team profile",
	Example: `  ncaa-explorer profile player cooper-flagg --stat REB
  ncaa-explorer profile team duke --season 2024`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := statKind(args[0])
		if err != nil {
			return err
		}

		env, err := initExplore(cmd.Context(), "profile", false)
		if err != nil {
			return err
		}
		defer env.Close()

		if kind == model.KindPlayers {
			p, err := runPlayerProfile(env, args[1], profileStat)
			if err != nil {
				return err
			}
			return printJSON(stdout, p)
		}
		p, err := runTeamProfile(env, args[1], profileStat, profileSeason)
		if err != nil {
			return err
		}
		return printJSON(stdout, p)
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact <player-slug>",
	Short: "Show how a player's numbers moved across each transfer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initExplore(cmd.Context(), "impact", false)
		if err != nil {
			return err
		}
		defer env.Close()

		rep, err := runImpact(env, args[0])
		if err != nil {
			return err
		}
		return printJSON(stdout, rep)
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileStat, "stat", "", "stat to chart by season")
	profileCmd.Flags().StringVar(&profileSeason, "season", "", "team season whose roster to include")
	rootCmd.AddCommand(profileCmd, impactCmd)
}
