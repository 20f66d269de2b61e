package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/insights"
)

// insightsCmd represents the insights command.
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize staffing and wage patterns",
	Long: `Ask the configured analyzer for a short narrative summary of the
current roster and shifts. Requires WAGETRACK_INSIGHTS_URL to be set;
prints a fallback notice when the analyzer is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(context.Background(), config.Global.HTTP.Timeout)
	defer cancel()

	analyzer := insights.NewAnalyzer()
	summary := analyzer.Summarize(c, state)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"summary": summary})
	}

	cli := ctx.CLIFormatter()
	cli.Title("Insights")
	ctx.Formatter.Println(summary)
	return nil
}
