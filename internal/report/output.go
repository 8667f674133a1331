package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ErrOutputWrite marks a workbook that could not be written. It is fatal to
// the run and never retried.
var ErrOutputWrite = errors.New("output write failed")

// Save writes the workbook to path through a temp file in the same directory,
// so a failed write never leaves a truncated workbook behind.
func Save(f *excelize.File, path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrOutputWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".craftprofit-*.xlsx.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrOutputWrite, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := f.WriteTo(tmp); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrOutputWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrOutputWrite, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrOutputWrite, path, err)
	}
	return nil
}

// Write streams the workbook to w.
func Write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	return nil
}
