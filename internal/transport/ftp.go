// =============================================================================
// fxexport - FTP Transport
// =============================================================================
//
// Uploads a generated artifact to the collection server. The local artifact
// name is used verbatim as the remote file name; the server keys reports by
// that name. One STOR per send, no partial-upload resume, no retries — a
// failed upload is surfaced and the operator re-triggers the send.
//
// =============================================================================

package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

// Uploader pushes a local artifact to the remote endpoint.
type Uploader interface {
	Upload(ctx context.Context, localPath, remoteName string) error
}

// FTPConfig holds the transport endpoint and credentials.
type FTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	RemoteDir string
	Timeout   time.Duration
}

// FTPUploader is the production Uploader over plain FTP.
type FTPUploader struct {
	cfg FTPConfig
	log zerolog.Logger
}

// NewFTPUploader creates an uploader for the configured endpoint.
func NewFTPUploader(cfg FTPConfig, log zerolog.Logger) *FTPUploader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &FTPUploader{cfg: cfg, log: log}
}

// Upload stores the local file on the remote server under remoteName.
// The connection lives for exactly one upload.
func (u *FTPUploader) Upload(ctx context.Context, localPath, remoteName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", filepath.Base(localPath), err)
	}
	defer f.Close()

	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)
	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(u.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(u.cfg.User, u.cfg.Password); err != nil {
		return fmt.Errorf("login %s: %w", addr, err)
	}

	if u.cfg.RemoteDir != "" {
		if err := conn.ChangeDir(u.cfg.RemoteDir); err != nil {
			return fmt.Errorf("change dir %s: %w", u.cfg.RemoteDir, err)
		}
	}

	u.log.Debug().
		Str("remote", addr).
		Str("artifact", remoteName).
		Msg("uploading artifact")

	if err := conn.Stor(remoteName, f); err != nil {
		return fmt.Errorf("store %s: %w", remoteName, err)
	}

	return nil
}
