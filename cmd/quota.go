package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hederw/nfs-extrator/internal/quota"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show today's extraction quota usage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tracker := quota.NewTracker(st, cfg.Quota.DailyLimit)
		count, err := tracker.Count(ctx)
		if err != nil {
			return eris.Wrap(err, "quota")
		}
		remaining, err := tracker.Remaining(ctx)
		if err != nil {
			return eris.Wrap(err, "quota")
		}

		fmt.Fprintf(os.Stdout, "Usadas hoje: %d de %d (restam %d)\n",
			count, tracker.Limit(), remaining)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
