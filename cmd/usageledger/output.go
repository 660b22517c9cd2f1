package main

import (
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/jgoulah/usageledger/internal/billing"
	"github.com/jgoulah/usageledger/internal/ingest"
)

const timeFormat = "2006-01-02 15:04:05"

func printIngested(res ingest.Result) {
	pterm.Success.Printfln("Ingested %s usage rows from %s", humanize.Comma(res.Rows), res.Path)
}

func printOutcome(outcome billing.Outcome) {
	if !outcome.Added {
		pterm.Info.Println(outcome.Message())
		return
	}
	pterm.Success.Println(outcome.Message())
	pterm.Info.Printfln("Billing period %d: %s to %s",
		outcome.Period.ID,
		outcome.Period.StartDate.Format(timeFormat),
		outcome.Period.EndDate.Format(timeFormat),
	)
}
