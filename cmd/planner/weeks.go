package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"production-planner/internal/planning"
)

func newWeeksCmd() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List the ISO weeks of a year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year < 1 || year > 9999 {
				return fmt.Errorf("--year %d out of range", year)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Clave\tSemana\tLunes-Domingo")
			for _, w := range planning.WeeksOfYear(year, cfg.Planning.Location()) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", planning.WeekKey(w.Year, w.Week), w.Label, w.DateRange)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "ISO week-numbering year")
	return cmd
}
