package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"esim-catalog/feature/catalog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var snapshotFlag string

// syncCmd runs one reconciliation pass and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the local catalog with the provider",
	Long: `Fetches the eSIM Access package catalog and reconciles every package,
operator, region and relation into the database.

Examples:
  # Sync against the live API
  sync

  # Replay the most recent archived snapshot
  sync --snapshot latest

  # Replay a specific snapshot
  sync --snapshot snapshots/esimaccess/2026/01/02/20260102T000000Z-<run>.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.withSyncer(ctx, prometheus.NewRegistry()); err != nil {
			return err
		}

		src := rt.source
		if snapshotFlag != "" {
			if src, err = rt.snapshotSource(ctx, snapshotFlag); err != nil {
				return err
			}
		}

		res, err := rt.syncer.Run(ctx, catalog.RunOptions{Trigger: catalog.TriggerCLI, Source: src})
		if res != nil {
			fmt.Println("\n=== Catalog Sync ===")
			fmt.Printf("Run: %s (%s)\n", res.RunID, res.Source)
			fmt.Printf("Status: %s\n", res.Status)
			fmt.Printf("Fetched: %d\n", res.Fetched)
			fmt.Printf("Result: %s\n", res.Summary())
			if res.Stale > 0 {
				fmt.Printf("Stale: %d\n", res.Stale)
			}
			for _, f := range res.Failures {
				rt.logger.Warn("Package failed", zap.String("code", f.Code), zap.String("stage", f.Stage), zap.String("error", f.Error))
			}
		}
		if err != nil {
			return err
		}
		if !res.OK() {
			return fmt.Errorf("catalog sync finished with status %s", res.Status)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&snapshotFlag, "snapshot", "", `Replay an archived snapshot ("latest" or an object key) instead of calling the API`)
}
