package handlers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportFileName names the PDF for a user on a given day. Path separators in the id become underscores.
func ReportFileName(userID string, now time.Time) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(userID)
	return fmt.Sprintf("patrol_report_%s_%s.pdf", safe, now.Format("20060102"))
}

// writeFileAtomic streams write into a temp file next to path and renames it into place, so a failed
// build never leaves a partial report behind.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}
