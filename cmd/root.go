// =============================================================================
// fxexport - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI and the shared wiring
// used by the subcommands.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fxexport)
//   ├── generateCmd (fxexport generate)
//   ├── sendCmd (fxexport send)
//   ├── importRatesCmd (fxexport import-rates)
//   └── versionCmd (fxexport version)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/exchbih/fxexport/internal/config"
	"github.com/exchbih/fxexport/internal/publish"
	"github.com/exchbih/fxexport/internal/rates"
	"github.com/exchbih/fxexport/internal/report"
	"github.com/exchbih/fxexport/internal/store"
	"github.com/exchbih/fxexport/internal/transport"
	"github.com/exchbih/fxexport/internal/xmlwriter"
	"github.com/exchbih/fxexport/pkg/utils"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// cfgFile holds the path to the configuration file.
// Overridden with the --config flag.
var cfgFile string

// verbose enables debug logging regardless of the configured level.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fxexport",
	Short: "fxexport - Export daily cash-register transactions as XML reports",

	Long: `fxexport exports the daily currency-exchange transactions of a cash
register from the Firebird store into the fixed XML report format of the
collection server, and uploads the report over FTP.

The workflow has two operator-paced phases:

  fxexport generate --from 2026-03-01 --to 2026-03-07
      Assembles one balance group and one transaction group per day with a
      register session and writes the artifact into the export root.

  fxexport send
      Uploads the generated artifact to the collection server; the artifact
      name is preserved verbatim on the remote side.

Example Usage:
  fxexport generate --from 2026-03-01 --to 2026-03-07 --send
  fxexport send --file EX00017_20260307_161500.XML
  fxexport import-rates --file tecajna_lista.xlsx --date 2026-03-08`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED WIRING
// =============================================================================

// newLogger builds the console logger. --verbose forces debug.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// buildEngine wires the publish engine from the configuration. withStore
// controls whether the register store is opened: send-only runs work purely
// from the export root and must not fail on an unreachable store.
func buildEngine(ctx context.Context, cfg *config.Config, log zerolog.Logger, withStore bool) (*publish.Engine, *utils.FileManager, error) {
	files := utils.NewFileManager(cfg.Export.RootDir, cfg.Export.ArchiveDir)
	files.UseTimestampSubdirs = cfg.Export.ArchiveByDate
	if err := files.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	uploader := transport.NewFTPUploader(transport.FTPConfig{
		Host:      cfg.Transport.Host,
		Port:      cfg.Transport.Port,
		User:      cfg.Transport.User,
		Password:  cfg.Transport.Password,
		RemoteDir: cfg.Transport.RemoteDir,
		Timeout:   cfg.Transport.Timeout(),
	}, log)

	writer := xmlwriter.NewWriter(cfg.Export.RootDir, cfg.Export.FileSuffix)

	var (
		st        store.Store
		assembler *report.Assembler
	)
	if withStore {
		fb, err := store.OpenFirebird(ctx, store.FirebirdConfig{
			Host:     cfg.Store.Host,
			Port:     cfg.Store.Port,
			Database: cfg.Store.Database,
			User:     cfg.Store.User,
			Password: cfg.Store.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		st = fb

		version, err := report.ParseSchemaVersion(cfg.Export.SchemaVersion)
		if err != nil {
			fb.Close()
			return nil, nil, err
		}

		assembler = report.NewAssembler(fb, rates.NewResolver(fb), report.Options{
			Version:        version,
			DomesticMarker: cfg.Export.DomesticMarker,
			ForeignMarker:  cfg.Export.ForeignMarker,
		}, log)
	}

	return publish.NewEngine(st, assembler, writer, uploader, files, log), files, nil
}
