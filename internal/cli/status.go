package cli

import (
	"fmt"
	"io"

	"github.com/ogulcanaydogan/powerpulse/pkg/battery"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/spf13/cobra"
)

// runStatus prints one reading. Any source failure is fatal here.
func runStatus(cmd *cobra.Command) error {
	source, err := battery.NewSystemSource()
	if err != nil {
		return err
	}
	reading, err := source.Status(cmd.Context())
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), reading)
	return nil
}

func printStatus(w io.Writer, r model.Reading) {
	fmt.Fprintf(w, "Battery status: %.1f%%, %s\n", r.Percentage, r.State)
	if r.TimeToEmpty != nil {
		fmt.Fprintf(w, "Time to empty: %d minutes\n", *r.TimeToEmpty)
	}
	if r.TimeToFull != nil {
		fmt.Fprintf(w, "Time to full: %d minutes\n", *r.TimeToFull)
	}
}
