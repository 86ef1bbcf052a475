// =============================================================================
// fxexport - File Manager Utility
// =============================================================================
//
// File management for the export root, including:
//   - Export directory management
//   - Artifact path resolution and discovery
//   - Archival of uploaded artifacts
//
// ARCHIVAL STRATEGY:
//   - Artifacts stay in the export root until uploaded.
//   - After a successful upload the artifact is moved to the archive
//     directory, optionally into date-based subdirectories.
//   - Archival is disabled entirely when no archive directory is configured.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles artifact files under the export root.
type FileManager struct {
	// ExportDir is the directory generated artifacts are written to.
	ExportDir string

	// ArchiveDir is the directory uploaded artifacts are moved to.
	// Empty disables archival.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2026/08/31/EX00017_20260831_101500.XML
	UseTimestampSubdirs bool
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(exportDir, archiveDir string) *FileManager {
	return &FileManager{
		ExportDir:  exportDir,
		ArchiveDir: archiveDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the export and archive directories if needed.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.ExportDir}
	if fm.ArchiveDir != "" {
		dirs = append(dirs, fm.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// ARTIFACT DISCOVERY
// =============================================================================

// ArtifactPath returns the full path of an artifact under the export root.
func (fm *FileManager) ArtifactPath(name string) string {
	return filepath.Join(fm.ExportDir, name)
}

// ListArtifacts returns the artifact names in the export root, newest
// first by modification time.
func (fm *FileManager) ListArtifacts() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(fm.ExportDir, "*.XML"))
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	type candidate struct {
		name string
		mod  time.Time
	}

	var found []candidate
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		found = append(found, candidate{name: filepath.Base(path), mod: info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].mod.After(found[j].mod)
	})

	names := make([]string, len(found))
	for i, c := range found {
		names[i] = c.name
	}

	return names, nil
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchiveArtifact moves an uploaded artifact into the archive directory and
// returns the destination path. A FileManager with no archive directory
// returns "" and leaves the artifact in place.
func (fm *FileManager) ArchiveArtifact(name string) (string, error) {
	if fm.ArchiveDir == "" {
		return "", nil
	}

	destDir := fm.ArchiveDir
	if fm.UseTimestampSubdirs {
		now := time.Now()
		destDir = filepath.Join(destDir,
			fmt.Sprintf("%04d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create archive directory %s: %w", destDir, err)
	}

	src := fm.ArtifactPath(name)
	dest := filepath.Join(destDir, name)

	if err := moveFile(src, dest); err != nil {
		return "", fmt.Errorf("archive %s: %w", name, err)
	}

	return dest, nil
}

// moveFile renames src to dest, falling back to copy-and-delete when the
// archive lives on another filesystem.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
