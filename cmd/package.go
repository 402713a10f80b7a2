package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"esim-catalog/feature/catalog"

	"github.com/spf13/cobra"
)

// packageCmd prints one stored package with its region, countries and operators.
var packageCmd = &cobra.Command{
	Use:   "package [code]",
	Short: "Show a stored package and its relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		detail, err := catalog.GetPackageDetail(cmd.Context(), rt.db, args[0])
		if errors.Is(err, catalog.ErrPackageNotFound) {
			return fmt.Errorf("package %s is not in the catalog", args[0])
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(detail, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

var runsLimit int

// runsCmd lists the recorded sync runs.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent catalog sync runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		runs, err := catalog.ListRuns(cmd.Context(), rt.db, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No sync runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %-9s  %-10s  %7s  %9s  %6s\n", "RUN", "STARTED", "TRIGGER", "STATUS", "FETCHED", "SUCCEEDED", "FAILED")
		for _, r := range runs {
			fmt.Printf("%-36s  %-20s  %-9s  %-10s  %7d  %9d  %6d\n",
				r.RunID, r.StartedAt.UTC().Format(time.RFC3339), r.Trigger, r.Status, r.Fetched, r.Succeeded, r.Failed)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(packageCmd, runsCmd)
	runsCmd.Flags().IntVar(&runsLimit, "limit", catalog.DefaultRunsLimit, "Number of runs to show")
}
