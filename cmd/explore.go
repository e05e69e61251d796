package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/dataset"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/filter"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

var (
	exploreFilters  []string
	exploreSearch   []string
	explorePage     int
	explorePageSize int
	exploreColumns  string
	exploreValues   string
)

var exploreCmd = &cobra.Command{
	Use:   "explore <teams|players|transfers>",
	Short: "Filter, search and page through a record set",
	Example: `  ncaa-explorer explore players --filter 'PTS>=20' --filter 'Conference=ACC|SEC'
  ncaa-explorer explore teams --search duke --columns Team_Name,Season,Team_Win%
  ncaa-explorer explore players --values Conference`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}

		env, err := initExplore(cmd.Context(), "explore", false)
		if err != nil {
			return err
		}
		defer env.Close()

		if exploreValues != "" {
			vals, err := columnValues(env, kind, exploreValues)
			if err != nil {
				return err
			}
			return printJSON(stdout, vals)
		}

		filters, err := filter.ParseAll(exploreFilters, env.Columns[kind])
		if err != nil {
			return err
		}
		res, err := runQuery(env, kind, tableQuery{
			Filters:  filters,
			Search:   exploreSearch,
			Page:     explorePage,
			PageSize: explorePageSize,
			Columns:  splitList(exploreColumns),
		})
		if err != nil {
			return err
		}
		return printJSON(stdout, res)
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns <teams|players|transfers>",
	Short: "List the resolved columns of a record set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}
		env, err := initExplore(cmd.Context(), "columns", false)
		if err != nil {
			return err
		}
		defer env.Close()
		return printJSON(stdout, env.Columns[kind])
	},
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List workbook sheets and the record sets they feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("sheets"); err != nil {
			return err
		}
		wb, err := newLoader(nil).Workbook(cmd.Context(), cfg.Data.Source)
		if err != nil {
			return err
		}
		return printJSON(stdout, dataset.Describe(wb, dataset.Keywords{
			Teams:     cfg.Data.Sheets.Teams,
			Players:   cfg.Data.Sheets.Players,
			Transfers: cfg.Data.Sheets.Transfers,
		}))
	},
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	exploreCmd.Flags().StringArrayVarP(&exploreFilters, "filter", "f", nil, "filter expression, e.g. 'PTS>=12', 'PTS=10..20', 'Team~duke' (repeatable)")
	exploreCmd.Flags().StringArrayVarP(&exploreSearch, "search", "s", nil, "search term matched against searchable columns (repeatable)")
	exploreCmd.Flags().IntVar(&explorePage, "page", 1, "1-based page number")
	exploreCmd.Flags().IntVar(&explorePageSize, "page-size", 0, "rows per page (default from config)")
	exploreCmd.Flags().StringVar(&exploreColumns, "columns", "", "comma-separated column ids to show")
	exploreCmd.Flags().StringVar(&exploreValues, "values", "", "print the distinct values of a column instead of rows")
	rootCmd.AddCommand(exploreCmd, columnsCmd, sheetsCmd)
}
