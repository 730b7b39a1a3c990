package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent battery readings",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of readings to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
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

	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No battery history recorded yet.")
		return nil
	}
	return printHistory(cmd.OutOrStdout(), records)
}

func printHistory(w io.Writer, records []model.HistoryRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header("Time", "Level", "State", "To Empty", "To Full")

	for _, r := range records {
		if err := table.Append([]string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.1f%%", r.Percentage),
			string(r.State),
			formatMinutes(r.TimeToEmpty),
			formatMinutes(r.TimeToFull),
		}); err != nil {
			return fmt.Errorf("render history: %w", err)
		}
	}

	return table.Render()
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	if *m < 60 {
		return strconv.Itoa(*m) + "m"
	}
	return fmt.Sprintf("%dh %02dm", *m/60, *m%60)
}
