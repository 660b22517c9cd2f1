package main

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var listUsage bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored usage and billing periods",
	Long:  `Displays the span of the stored usage data and every billing period.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listUsage, "usage", false, "Also print every usage row")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close(ctx)

	span, err := s.db.UsageSpan(ctx)
	if err != nil {
		return fmt.Errorf("reading usage span: %w", err)
	}

	if span.Rows == 0 {
		pterm.Warning.Println("No usage data found")
	} else {
		pterm.Info.Printfln("%s usage rows from %s to %s",
			humanize.Comma(span.Rows), span.First.Format(timeFormat), span.Last.Format(timeFormat))
	}

	if listUsage && span.Rows > 0 {
		records, err := s.db.ListUsage(ctx)
		if err != nil {
			return fmt.Errorf("listing usage: %w", err)
		}

		data := pterm.TableData{{"Timepoint", "Cost", "kWh", "Temp"}}
		for _, r := range records {
			data = append(data, []string{
				r.Timepoint.Format(timeFormat),
				r.Cost.StringFixed(2),
				r.KWh.StringFixed(2),
				strconv.Itoa(r.Temp),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return fmt.Errorf("rendering usage table: %w", err)
		}
	}

	periods, err := s.db.ListBillingPeriods(ctx)
	if err != nil {
		return fmt.Errorf("listing billing periods: %w", err)
	}

	if len(periods) == 0 {
		pterm.Warning.Println("No billing periods found")
		return nil
	}

	data := pterm.TableData{{"ID", "Start", "End", "Due", "Paid", "Amount", "kWh"}}
	for _, p := range periods {
		data = append(data, []string{
			strconv.FormatInt(p.ID, 10),
			p.StartDate.Format(timeFormat),
			p.EndDate.Format(timeFormat),
			formatDate(p.DueDate),
			formatDate(p.PaidDate),
			formatAmount(p.BillAmount),
			formatInt(p.KWh),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

func formatDate(t sql.NullTime) string {
	if !t.Valid {
		return "-"
	}
	return t.Time.Format("2006-01-02")
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return "$" + d.Decimal.StringFixed(2)
}

func formatInt(n sql.NullInt64) string {
	if !n.Valid {
		return "-"
	}
	return humanize.Comma(n.Int64)
}
