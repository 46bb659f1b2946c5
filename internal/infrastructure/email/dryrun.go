package email

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

// DryRunFilename is the file a dry run writes, relative to the output directory.
const DryRunFilename = "digest_dry_run.html"

// FileWriter stores the digest locally instead of mailing it.
type FileWriter struct {
	dir    string
	logger logger.Interface
}

// NewFileWriter writes into dir, or the working directory when dir is empty.
func NewFileWriter(dir string, logger logger.Interface) *FileWriter {
	return &FileWriter{
		dir:    dir,
		logger: logger,
	}
}

// Path is where Write puts the document.
func (w *FileWriter) Path() string {
	return filepath.Join(w.dir, DryRunFilename)
}

func (w *FileWriter) Write(html string) (string, error) {
	path := w.Path()
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", apperrors.NewDeliveryError("failed to write dry run output", err, path)
	}
	w.logger.Infow("dry run output written",
		"path", path,
		"size", fmt.Sprintf("%d bytes", len(html)),
	)
	return path, nil
}
