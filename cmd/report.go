package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/parser"
	"github.com/wagetrack/wagetrack/internal/report"
)

// Report command flags.
var reportFlagCSV string

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:     "report [PERIOD]",
	Aliases: []string{"payroll"},
	Short:   "Summarize hours and wages for a period",
	Long: `Build a payroll summary for a period. Defaults to the current month.

Periods accept natural phrases and explicit dates:
  wt report
  wt report this week
  wt report last month
  wt report 2025-03
  wt report 2025-03-01..2025-03-15
  wt report last quarter --csv payroll.csv`,
	Args: cobra.ArbitraryArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFlagCSV, "csv", "", "Write CSV to this file ('-' for stdout)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	rng, err := parser.ParseRange(strings.Join(args, " "))
	if err != nil {
		return userFacing(err)
	}

	rep := report.Build(state, rng)

	if reportFlagCSV != "" {
		return writeReportCSV(rep)
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintReport(rep)
	}
	ctx.CLIFormatter().PrintReport(rep)
	return nil
}

func writeReportCSV(rep report.Report) error {
	if reportFlagCSV == "-" {
		return rep.WriteCSV(ctx.Formatter.Writer)
	}

	f, err := os.Create(reportFlagCSV)
	if err != nil {
		return err
	}
	if err := rep.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "written",
			"path":   reportFlagCSV,
			"rows":   len(rep.Rows),
		})
	}
	ctx.CLIFormatter().Success("Wrote " + reportFlagCSV)
	return nil
}
