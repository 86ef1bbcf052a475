// =============================================================================
// fxexport - Main Entry Point
// =============================================================================
//
// This is the main entry point for the fxexport CLI application. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   fxexport generate      - Generate the XML report for a date range
//   fxexport send          - Upload a generated report artifact
//   fxexport import-rates  - Post a daily exchange-rate list into the store
//   fxexport version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/exchbih/fxexport/cmd"
)

func main() {
	cmd.Execute()
}
