package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var purgeExpired bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed snapshot cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snaps, err := st.ListSnapshots(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(stdout, snaps)
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var n int
		if purgeExpired {
			n, err = st.DeleteExpiredSnapshots(cmd.Context())
		} else {
			n, err = st.PurgeSnapshots(cmd.Context())
		}
		if err != nil {
			return err
		}
		zap.L().Info("snapshot cache purged", zap.Int("deleted", n), zap.Bool("expired_only", purgeExpired))
		_, err = fmt.Fprintf(stdout, "deleted %d snapshot(s)\n", n)
		return err
	},
}

func init() {
	cachePurgeCmd.Flags().BoolVar(&purgeExpired, "expired", false, "only delete expired snapshots")
	cacheCmd.AddCommand(cacheListCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
