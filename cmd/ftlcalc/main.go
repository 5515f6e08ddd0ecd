package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewdesk/crewdesk/internal/config"
	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ftl"
)

const appVersion = "0.3.0"

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "ftlcalc",
		Short:         "Offline flight and duty time limit calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = appVersion
	root.SetVersionTemplate("ftlcalc v{{.Version}}\n")
	root.SetOut(out)

	root.AddCommand(newMetricsCommand(out), newDurationCommand(out))
	return root
}

func newMetricsCommand(out io.Writer) *cobra.Command {
	var (
		recordsPath string
		limitsPath  string
		dateStr     string
		toStr       string
		policy      string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Project limits from a YAML records file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(recordsPath) == "" {
				return fmt.Errorf("--records is required")
			}
			if strings.TrimSpace(dateStr) == "" {
				return fmt.Errorf("--date is required")
			}
			anchor, err := domain.ParseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			to := anchor
			if toStr != "" {
				if to, err = domain.ParseDate(toStr); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				if to.Before(anchor) {
					return fmt.Errorf("--to must not be before --date")
				}
			}

			attribution, err := domain.AttributionByName(policy)
			if err != nil {
				return err
			}
			table, err := config.LoadLimitTable(limitsPath)
			if err != nil {
				return err
			}
			records, err := loadRecords(recordsPath)
			if err != nil {
				return err
			}

			series := ftl.NewSeries(domain.BuildDailyTotals(records.Duties, records.Flights, attribution))
			snapshots := ftl.ProjectRange(records.StaffID, anchor, to, series, table)

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snapshots)
			}
			for i, m := range snapshots {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printMetrics(out, m)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "YAML file with duty and flight entries")
	cmd.Flags().StringVar(&limitsPath, "limits", "", "YAML limit table (default: built-in table)")
	cmd.Flags().StringVar(&dateStr, "date", "", "Anchor date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "Last anchor date for a range (optional)")
	cmd.Flags().StringVar(&policy, "policy", domain.AttributionStartDate, "Overnight duty policy: start_date or split_midnight")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newDurationCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <text>...",
		Short: "Normalize duration text to HH:MM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, arg := range args {
				in := domain.ParseDuration(arg)
				if !in.Valid() {
					failed++
					fmt.Fprintf(w, "%s\t%s\t%s\n", arg, in.Form, in.Err.Reason)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", arg, in.Form, domain.EncodeDuration(in.Hours))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d values could not be read", failed, len(args))
			}
			return nil
		},
	}
}

func printMetrics(out io.Writer, m ftl.FTLMetrics) {
	fmt.Fprintf(out, "Staff %s at %s: %s\n", m.StaffID, m.AnchorDate, strings.ToUpper(string(m.WorstTier)))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LIMIT\tWINDOW\tTOTAL\tMAX\tPCT\tTIER\tEND OF MONTH")
	for _, lm := range m.Ordered() {
		fmt.Fprintf(w, "%s\t%dd\t%s\t%s\t%.1f%%\t%s\t%s\n",
			lm.Name,
			lm.WindowDays,
			domain.EncodeDuration(domain.Hours(lm.Total)),
			domain.EncodeDuration(domain.Hours(lm.MaxHours)),
			lm.Percentage,
			lm.Tier,
			domain.EncodeDuration(domain.Hours(lm.EndOfMonthTotal)),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "Month %d-%02d: duty %s (to date %s), flight %s (to date %s)\n",
		m.Month.Year, int(m.Month.Month),
		domain.EncodeDuration(domain.Hours(m.Month.DutyHours)),
		domain.EncodeDuration(domain.Hours(m.Month.DutyHoursToDate)),
		domain.EncodeDuration(domain.Hours(m.Month.FlightHours)),
		domain.EncodeDuration(domain.Hours(m.Month.FlightHoursToDate)),
	)
}
