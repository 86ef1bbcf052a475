package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchbih/fxexport/internal/rates"
	"github.com/exchbih/fxexport/internal/report"
	"github.com/exchbih/fxexport/internal/store"
	"github.com/exchbih/fxexport/internal/xmlwriter"
	"github.com/exchbih/fxexport/pkg/utils"
)

// fakeStore is a minimal register store with one session per configured day.
type fakeStore struct {
	identifier    string
	identifierErr error
	sessions      map[string]int64
	txs           map[int64][]store.TransactionRow

	calls  int
	closed bool
}

func (f *fakeStore) BusinessIdentifier(context.Context) (string, error) {
	f.calls++
	if f.identifierErr != nil {
		return "", f.identifierErr
	}
	return f.identifier, nil
}

func (f *fakeStore) SessionForDay(_ context.Context, day time.Time) (int64, bool, error) {
	f.calls++
	id, ok := f.sessions[day.Format(report.DayFormat)]
	return id, ok, nil
}

func (f *fakeStore) Balances(context.Context, int64) ([]store.RegisterStateRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeStore) Rate(context.Context, time.Time, string) (decimal.Decimal, bool, error) {
	f.calls++
	return decimal.Decimal{}, false, nil
}

func (f *fakeStore) Rates(context.Context, time.Time) (map[string]decimal.Decimal, error) {
	f.calls++
	return nil, nil
}

func (f *fakeStore) Transactions(_ context.Context, sessionID int64) ([]store.TransactionRow, error) {
	f.calls++
	return f.txs[sessionID], nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	err      error
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath, remoteName string) error {
	if f.err != nil {
		return f.err
	}
	if _, err := os.Stat(localPath); err != nil {
		return err
	}
	f.uploaded = append(f.uploaded, remoteName)
	return nil
}

// testEngine wires an engine over temp directories.
func testEngine(t *testing.T, st *fakeStore, uploader *fakeUploader, archiveDir string) (*Engine, string) {
	t.Helper()

	exportDir := t.TempDir()

	writer := xmlwriter.NewWriter(exportDir, "")
	writer.Clock = func() time.Time {
		return time.Date(2026, 3, 7, 16, 15, 0, 0, time.UTC)
	}

	files := utils.NewFileManager(exportDir, archiveDir)
	require.NoError(t, files.EnsureDirectories())

	assembler := report.NewAssembler(st, rates.NewResolver(st), report.DefaultOptions(), zerolog.Nop())

	return NewEngine(st, assembler, writer, uploader, files, zerolog.Nop()), exportDir
}

func validRange() report.DateRange {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return report.NewDateRange(d, d)
}

func sessionStore() *fakeStore {
	return &fakeStore{
		identifier: "EX00017",
		sessions:   map[string]int64{"2026-03-02": 10},
	}
}

func TestGenerateRecordsPendingArtifact(t *testing.T) {
	st := sessionStore()
	engine, exportDir := testEngine(t, st, &fakeUploader{}, "")

	name, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)
	assert.Equal(t, "EX00017_20260307_161500.XML", name)

	state := engine.State()
	assert.Equal(t, name, state.PendingArtifact)
	assert.True(t, state.GenerateEnabled)
	assert.True(t, state.SendEnabled)

	_, err = os.Stat(filepath.Join(exportDir, name))
	assert.NoError(t, err)
}

// An invalid range performs no I/O and leaves the publish state untouched.
func TestGenerateInvalidRange(t *testing.T) {
	st := sessionStore()
	engine, _ := testEngine(t, st, &fakeUploader{}, "")

	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := engine.Generate(context.Background(), report.NewDateRange(start, end))

	assert.ErrorIs(t, err, report.ErrEndBeforeStart)
	assert.Zero(t, st.calls)

	state := engine.State()
	assert.Empty(t, state.PendingArtifact)
	assert.False(t, state.SendEnabled)
}

// A failed identifier lookup aborts the run with nothing recorded.
func TestGenerateIdentifierFailure(t *testing.T) {
	st := sessionStore()
	st.identifierErr = errors.New("no FIRME record")
	engine, _ := testEngine(t, st, &fakeUploader{}, "")

	_, err := engine.Generate(context.Background(), validRange())
	assert.Error(t, err)
	assert.Empty(t, engine.State().PendingArtifact)
}

// A second generate overwrites the pending reference; there is no queue.
func TestGenerateOverwritesPending(t *testing.T) {
	st := sessionStore()
	engine, _ := testEngine(t, st, &fakeUploader{}, "")

	first, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)

	// Later write-time clock, later artifact name.
	engineWriterClock(engine, time.Date(2026, 3, 7, 16, 16, 0, 0, time.UTC))
	second, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, second, engine.State().PendingArtifact)
}

func engineWriterClock(e *Engine, at time.Time) {
	e.writer.Clock = func() time.Time { return at }
}

// Send without a prior generate is a gated no-op.
func TestSendWithoutPending(t *testing.T) {
	uploader := &fakeUploader{}
	engine, _ := testEngine(t, sessionStore(), uploader, "")

	err := engine.Send(context.Background())

	assert.ErrorIs(t, err, ErrNoPendingArtifact)
	assert.Empty(t, uploader.uploaded)
	assert.Empty(t, engine.State().PendingArtifact)
}

// A full generate/send cycle clears the pending artifact and restores the
// initial gating.
func TestGenerateSendCycle(t *testing.T) {
	uploader := &fakeUploader{}
	engine, _ := testEngine(t, sessionStore(), uploader, "")

	name, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)

	require.NoError(t, engine.Send(context.Background()))

	assert.Equal(t, []string{name}, uploader.uploaded)

	state := engine.State()
	assert.Empty(t, state.PendingArtifact)
	assert.True(t, state.GenerateEnabled)
	assert.False(t, state.SendEnabled)
}

// Transport failure keeps the artifact pending so the send can simply be
// retried.
func TestSendTransportFailureKeepsPending(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("connection refused")}
	engine, _ := testEngine(t, sessionStore(), uploader, "")

	name, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)

	err = engine.Send(context.Background())
	require.Error(t, err)
	assert.Equal(t, name, engine.State().PendingArtifact)
	assert.True(t, engine.State().SendEnabled)

	// Retry after the transport recovers.
	uploader.err = nil
	require.NoError(t, engine.Send(context.Background()))
	assert.Empty(t, engine.State().PendingArtifact)
}

// A successful send moves the artifact into the archive when configured.
func TestSendArchivesArtifact(t *testing.T) {
	st := sessionStore()
	uploader := &fakeUploader{}
	archiveDir := t.TempDir()
	engine, exportDir := testEngine(t, st, uploader, archiveDir)

	name, err := engine.Generate(context.Background(), validRange())
	require.NoError(t, err)
	require.NoError(t, engine.Send(context.Background()))

	_, err = os.Stat(filepath.Join(exportDir, name))
	assert.True(t, os.IsNotExist(err), "artifact should have left the export root")

	_, err = os.Stat(filepath.Join(archiveDir, name))
	assert.NoError(t, err, "artifact should be in the archive")
}

func TestAdopt(t *testing.T) {
	engine, exportDir := testEngine(t, sessionStore(), &fakeUploader{}, "")

	t.Run("missing artifact", func(t *testing.T) {
		err := engine.Adopt("EX00017_20260101_000000.XML")
		assert.ErrorIs(t, err, ErrArtifactMissing)
		assert.Empty(t, engine.State().PendingArtifact)
	})

	t.Run("existing artifact", func(t *testing.T) {
		name := "EX00017_20260307_161500.XML"
		require.NoError(t, os.WriteFile(filepath.Join(exportDir, name), []byte("<tomeges_adatok/>"), 0644))

		require.NoError(t, engine.Adopt(name))
		assert.Equal(t, name, engine.State().PendingArtifact)
		assert.True(t, engine.State().SendEnabled)
	})
}

func TestCloseReleasesStore(t *testing.T) {
	st := sessionStore()
	engine, _ := testEngine(t, st, &fakeUploader{}, "")

	require.NoError(t, engine.Close())
	assert.True(t, st.closed)
}
