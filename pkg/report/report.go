// Package report writes the ranked identifier list.
//
// Output is a header line followed by one identifier per line. Files are
// written atomically: content goes to a temporary file in the destination
// directory, which is fsync'd and renamed into place, so a failed run never
// leaves a partial output file behind.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// DefaultHeader is the first line of every report.
const DefaultHeader = "address"

// Write emits header and ids to w, one per line.
func Write(w io.Writer, header string, ids []string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile atomically replaces path with the report.
func WriteFile(path, header string, ids []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("report: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Write(tmp, header, ids); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("report: failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("report: failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("report: failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("report: failed to set mode on %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("report: failed to rename into %s: %w", path, err)
	}

	// The report is complete at this point; a failed directory sync only
	// weakens crash durability of the rename.
	_ = syncDir(dir)
	return nil
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close stdout early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
