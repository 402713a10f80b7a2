package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"esim-catalog/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	yesConfirm bool
)

// integrityCmd checks the catalog schema and the relation projections.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the catalog schema and relation consistency",
	Long: `Verifies that every catalog table carries the expected columns and that the
denormalized id lists (operator esim_id, package country_ids) agree with the
join tables.

Examples:
  # Report only
  integrity

  # Repair drift (with interactive confirmation)
  integrity --fix

  # Repair drift without prompting
  integrity --fix --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()
		l := rt.logger

		l.Info("Checking catalog integrity...")
		report, err := catalog.CheckIntegrity(ctx, rt.db, false)
		if err != nil {
			return fmt.Errorf("integrity check failed: %w", err)
		}
		printIntegrityReport(l, report)

		if fixFlag && len(report.Drift) > 0 {
			if !confirmDestructiveAction() {
				l.Info("Fix cancelled by user.")
			} else {
				fixed, err := catalog.FixDrift(ctx, rt.db, report.Drift)
				if err != nil {
					return fmt.Errorf("failed to fix drift: %w", err)
				}
				report.Fixed = fixed
				l.Info("Drift repaired", zap.Int("fixed", fixed))
			}
		} else if len(report.Drift) > 0 {
			l.Info("Run with --fix to repair drift.")
		}

		fmt.Println("\n=== Catalog Integrity ===")
		fmt.Printf("Schema: %s\n", matchedLabel(report.Schema.Matched))
		fmt.Printf("Drift: %d\n", len(report.Drift))
		fmt.Printf("Fixed: %d\n", report.Fixed)
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		if !report.OK() {
			return fmt.Errorf("catalog integrity check found unresolved issues")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Repair drift between id lists and join tables")
	integrityCmd.Flags().BoolVarP(&yesConfirm, "yes", "y", false, "Skip the confirmation prompt")
}

func printIntegrityReport(l *zap.Logger, report *catalog.IntegrityReport) {
	if report.Schema.Matched {
		l.Info("Schema matches the catalog models.")
	} else {
		tables := make([]string, 0, len(report.Schema.Tables))
		for table := range report.Schema.Tables {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			tbl := report.Schema.Tables[table]
			if tbl.Status != "ok" {
				l.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
		}
		for _, e := range report.Schema.Errors {
			l.Error("Inspection Error", zap.String("error", e))
		}
	}

	for _, d := range report.Drift {
		l.Warn("Relation drift",
			zap.String("relation", d.Relation),
			zap.String("owner", d.Owner),
			zap.Uints("stored", d.Stored),
			zap.Uints("joined", d.Joined),
		)
	}
}

func matchedLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "mismatch"
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
