package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/ogulcanaydogan/powerpulse/pkg/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show battery usage statistics",
	Long:  `Summarise recorded history: discharge and charge rates, cycles, full charges, daily usage and the longest session on battery.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int("days", 7, "Number of days to analyze")
}

func runStats(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", days)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	start, _ := model.HistoryWindow(days, time.Now())
	records, err := store.Since(cmd.Context(), start)
	if err != nil {
		return err
	}

	printStats(cmd.OutOrStdout(), days, stats.Compute(records))
	return nil
}

func printStats(w io.Writer, days int, s stats.Summary) {
	fmt.Fprintf(w, "Battery Statistics (Last %d days)\n", days)
	fmt.Fprintf(w, "----------------------------------------\n")
	fmt.Fprintf(w, "Samples:                 %d\n", s.Samples)
	fmt.Fprintf(w, "Average Discharge Rate:  %s\n", formatRate(s.AverageDischargeRate, "% per hour"))
	fmt.Fprintf(w, "Average Charge Rate:     %s\n", formatRate(s.AverageChargeRate, "% per hour"))
	fmt.Fprintf(w, "Discharge/Charge Cycles: %d\n", s.DischargeCycles)
	fmt.Fprintf(w, "Full Charges:            %d\n", s.FullCharges)
	fmt.Fprintf(w, "Average Daily Usage:     %s\n", formatRate(s.AverageDailyUsage, "%"))
	if s.LongestSession != nil {
		fmt.Fprintf(w, "Longest Battery Session: %.2f hours\n", s.LongestSession.Hours())
	} else {
		fmt.Fprintf(w, "Longest Battery Session: No data\n")
	}
}

func formatRate(v *float64, unit string) string {
	if v == nil {
		return "No data"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}
