// =============================================================================
// fxexport - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the first phase of the publish
// workflow. It assembles the report for a date range and writes the artifact
// into the export root. With --send the second phase runs immediately in the
// same process.
//
// COMMAND USAGE:
//   fxexport generate --from 2026-03-01 --to 2026-03-07 [--send]
//
// PIPELINE:
//   1. Load and validate configuration
//   2. Open the register store
//   3. Validate the date range (before any store access)
//   4. Assemble the per-day balance and transaction groups
//   5. Write the XML artifact
//   6. Optionally upload it
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/exchbih/fxexport/internal/config"
	"github.com/exchbih/fxexport/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// fromDate and toDate bound the exported range, both ends inclusive.
var fromDate string
var toDate string

// sendAfter uploads the artifact immediately after a successful generate.
var sendAfter bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the XML report for a date range",
	Long: `The generate command exports the completed exchange transactions and the
opening register balances of every day in the range into one XML artifact.

Days without a register session are skipped silently; days with a session
always contribute both element groups, even when empty. The artifact is
named {identifier}_{timestamp}.XML from the business identifier in the
store and remains in the export root until sent.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(
		&fromDate,
		"from",
		"",
		"Start date of the export range, YYYY-MM-DD (required)",
	)

	generateCmd.Flags().StringVar(
		&toDate,
		"to",
		"",
		"End date of the export range, YYYY-MM-DD (required)",
	)

	generateCmd.Flags().BoolVar(
		&sendAfter,
		"send",
		false,
		"Upload the artifact immediately after generating",
	)

	generateCmd.MarkFlagRequired("from")
	generateCmd.MarkFlagRequired("to")
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

// runGenerate drives the generate phase, and the send phase with --send.
func runGenerate(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	start, err := time.Parse(report.DayFormat, fromDate)
	if err != nil {
		return fmt.Errorf("invalid --from date %q: use YYYY-MM-DD", fromDate)
	}
	end, err := time.Parse(report.DayFormat, toDate)
	if err != nil {
		return fmt.Errorf("invalid --to date %q: use YYYY-MM-DD", toDate)
	}

	ctx := cmd.Context()

	engine, _, err := buildEngine(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	name, err := engine.Generate(ctx, report.NewDateRange(start, end))
	if err != nil {
		return err
	}

	fmt.Printf("Report generated: %s\n", name)

	if !sendAfter {
		fmt.Println("Run 'fxexport send' to upload it.")
		return nil
	}

	if err := engine.Send(ctx); err != nil {
		return fmt.Errorf("artifact kept in export root: %w", err)
	}

	fmt.Printf("Report uploaded: %s\n", name)
	return nil
}
