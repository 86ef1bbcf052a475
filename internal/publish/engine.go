// =============================================================================
// fxexport - Publish Engine
// =============================================================================
//
// The engine is the two-phase publish workflow: generate a report artifact,
// then send it. It owns the store handle and the publish state; nothing else
// in the process mutates either. Runs are operator-paced and synchronous —
// one generate or send at a time, no background work.
//
// STATE MACHINE:
//   initial          : no pending artifact, generate enabled, send disabled
//   after generate   : pending artifact recorded, send enabled (a repeated
//                      generate overwrites the pending reference, no queue)
//   after send       : pending artifact cleared, back to initial gating
//   after any failure: state exactly as before the failed action
//
// =============================================================================

package publish

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/exchbih/fxexport/internal/report"
	"github.com/exchbih/fxexport/internal/store"
	"github.com/exchbih/fxexport/internal/transport"
	"github.com/exchbih/fxexport/internal/xmlwriter"
	"github.com/exchbih/fxexport/pkg/utils"
)

// PublishState is a snapshot of the workflow gating.
type PublishState struct {
	// PendingArtifact is the artifact name awaiting upload, empty when none.
	PendingArtifact string

	// GenerateEnabled reports whether a generate may run. Always true in
	// this variant: regenerating overwrites the pending reference.
	GenerateEnabled bool

	// SendEnabled reports whether a send may run.
	SendEnabled bool
}

// Engine couples report generation and artifact upload.
type Engine struct {
	store     store.Store
	assembler *report.Assembler
	writer    *xmlwriter.Writer
	uploader  transport.Uploader
	files     *utils.FileManager
	log       zerolog.Logger

	pending     string
	sendEnabled bool
}

// NewEngine wires the workflow. The engine takes ownership of the store
// handle; Close releases it.
func NewEngine(st store.Store, assembler *report.Assembler, writer *xmlwriter.Writer,
	uploader transport.Uploader, files *utils.FileManager, log zerolog.Logger) *Engine {
	return &Engine{
		store:     st,
		assembler: assembler,
		writer:    writer,
		uploader:  uploader,
		files:     files,
		log:       log,
	}
}

// Close releases the store handle if it holds one.
func (e *Engine) Close() error {
	if closer, ok := e.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// State returns the current workflow gating.
func (e *Engine) State() PublishState {
	return PublishState{
		PendingArtifact: e.pending,
		GenerateEnabled: true,
		SendEnabled:     e.sendEnabled,
	}
}

// =============================================================================
// GENERATE
// =============================================================================

// Generate assembles and writes the report artifact for a date range and
// records it as pending. On any failure the publish state is untouched: an
// invalid range is rejected before any store access, and a failed identifier
// lookup, assembly, or write records nothing.
func (e *Engine) Generate(ctx context.Context, r report.DateRange) (string, error) {
	// Range validation gates all I/O.
	if err := r.Validate(); err != nil {
		return "", err
	}

	run := uuid.NewString()
	log := e.log.With().Str("run", run).Logger()
	log.Info().
		Str("from", r.Start.Format(report.DayFormat)).
		Str("to", r.End.Format(report.DayFormat)).
		Msg("generating report")

	// The business identifier is mandatory: without it no artifact can be
	// named or stamped, so the whole run aborts.
	identifier, err := e.store.BusinessIdentifier(ctx)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	doc, err := e.assembler.Build(ctx, r, identifier)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if doc.Version.IncludesTransactions() && doc.TransactionCount() == 0 {
		log.Warn().Msg("report contains no transactions")
	}

	name, err := e.writer.Write(doc)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	// Success: record the artifact and open the send gate. A pending
	// artifact from an earlier generate is simply overwritten.
	e.pending = name
	e.sendEnabled = true

	log.Info().
		Str("artifact", name).
		Int("days", len(doc.Days)).
		Int("transactions", doc.TransactionCount()).
		Msg("report generated")

	return name, nil
}

// =============================================================================
// SEND
// =============================================================================

// Send uploads the pending artifact. On transport failure the artifact
// stays pending so the operator can retry without regenerating; on success
// the pending reference is cleared and the gating returns to its initial
// shape.
func (e *Engine) Send(ctx context.Context) error {
	if e.pending == "" || !e.sendEnabled {
		return ErrNoPendingArtifact
	}

	localPath := e.files.ArtifactPath(e.pending)
	if err := e.uploader.Upload(ctx, localPath, e.pending); err != nil {
		return fmt.Errorf("send %s: %w", e.pending, err)
	}

	e.log.Info().Str("artifact", e.pending).Msg("artifact uploaded")

	// Archival is best-effort: the upload already succeeded, a local move
	// failure must not fail the send.
	if dest, err := e.files.ArchiveArtifact(e.pending); err != nil {
		e.log.Warn().Err(err).Str("artifact", e.pending).Msg("archive failed")
	} else if dest != "" {
		e.log.Debug().Str("archived", dest).Msg("artifact archived")
	}

	e.pending = ""
	e.sendEnabled = false

	return nil
}

// Adopt re-establishes a pending artifact from the export root, for send
// runs in a fresh process. The file must exist; gating then matches the
// post-generate state.
func (e *Engine) Adopt(name string) error {
	if _, err := os.Stat(e.files.ArtifactPath(name)); err != nil {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, name)
	}

	e.pending = name
	e.sendEnabled = true

	return nil
}
