// =============================================================================
// fxexport - Import Rates Command
// =============================================================================
//
// This file defines the 'import-rates' command, which posts a daily
// exchange-rate list from an XLSX workbook into the store's regular rate
// category. The report conversion resolves its purchase rates from that
// list; currencies missing from it convert at 1.0.
//
// COMMAND USAGE:
//   fxexport import-rates --file tecajna_lista.xlsx [--date 2026-03-08]
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/exchbih/fxexport/internal/config"
	"github.com/exchbih/fxexport/internal/ratesheet"
	"github.com/exchbih/fxexport/internal/report"
	"github.com/exchbih/fxexport/internal/store"
)

// rateSheetFile is the XLSX workbook with the daily list.
var rateSheetFile string

// rateDate is the day the list applies to. Empty means today.
var rateDate string

// importRatesCmd represents the 'import-rates' command.
var importRatesCmd = &cobra.Command{
	Use:   "import-rates",
	Short: "Import a daily exchange-rate list from an XLSX workbook",
	Long: `The import-rates command parses a distributed daily rate list and posts
its buy, middle and sell rates for the given date in the regular rate
category, replacing any list already posted for that date.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportRates(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importRatesCmd)

	importRatesCmd.Flags().StringVar(
		&rateSheetFile,
		"file",
		"",
		"Path to the XLSX rate list (required)",
	)

	importRatesCmd.Flags().StringVar(
		&rateDate,
		"date",
		"",
		"Date the list applies to, YYYY-MM-DD (default today)",
	)

	importRatesCmd.MarkFlagRequired("file")
}

// runImportRates parses the workbook and replaces the day's regular list.
func runImportRates(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	day := time.Now()
	if rateDate != "" {
		day, err = time.Parse(report.DayFormat, rateDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", rateDate)
		}
	}

	rows, err := ratesheet.Parse(rateSheetFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	fb, err := store.OpenFirebird(ctx, store.FirebirdConfig{
		Host:     cfg.Store.Host,
		Port:     cfg.Store.Port,
		Database: cfg.Store.Database,
		User:     cfg.Store.User,
		Password: cfg.Store.Password,
	})
	if err != nil {
		return err
	}
	defer fb.Close()

	if err := fb.SaveRates(ctx, day, rows); err != nil {
		return err
	}

	log.Info().
		Str("day", day.Format(report.DayFormat)).
		Int("currencies", len(rows)).
		Msg("rate list posted")

	fmt.Printf("Posted %d rates for %s\n", len(rows), day.Format(report.DayFormat))
	return nil
}
