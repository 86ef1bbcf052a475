// =============================================================================
// fxexport - Publish Errors
// =============================================================================

package publish

import "errors"

// ErrNoPendingArtifact is returned by Send when no generated artifact is
// waiting for upload.
var ErrNoPendingArtifact = errors.New("no pending artifact to send")

// ErrArtifactMissing is returned by Adopt when the named artifact does not
// exist under the export root.
var ErrArtifactMissing = errors.New("artifact not found in export directory")
