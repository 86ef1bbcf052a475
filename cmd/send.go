// =============================================================================
// fxexport - Send Command
// =============================================================================
//
// This file defines the 'send' command, the second phase of the publish
// workflow. It uploads an artifact from the export root to the collection
// server. Without --file the newest artifact in the export root is sent.
//
// COMMAND USAGE:
//   fxexport send [--file EX00017_20260307_161500.XML]
//
// The register store is not opened for a send: a store outage never blocks
// retrying an upload.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exchbih/fxexport/internal/config"
)

// artifactFile names the artifact to upload. Empty selects the newest one.
var artifactFile string

// sendCmd represents the 'send' command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Upload a generated report artifact to the collection server",
	Long: `The send command uploads a generated XML artifact over FTP, preserving
the artifact name on the remote side. On success the artifact is moved to
the archive directory when one is configured; on failure it stays in the
export root so the upload can simply be retried.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(
		&artifactFile,
		"file",
		"",
		"Artifact file name to upload (default is the newest in the export root)",
	)
}

// runSend adopts the requested artifact as pending and sends it.
func runSend(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx := cmd.Context()

	engine, files, err := buildEngine(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	name := artifactFile
	if name == "" {
		artifacts, err := files.ListArtifacts()
		if err != nil {
			return err
		}
		if len(artifacts) == 0 {
			return fmt.Errorf("no artifacts in export root %s; run 'fxexport generate' first", cfg.Export.RootDir)
		}
		name = artifacts[0]
	}

	if err := engine.Adopt(name); err != nil {
		return err
	}
	if err := engine.Send(ctx); err != nil {
		return err
	}

	fmt.Printf("Report uploaded: %s\n", name)
	return nil
}
