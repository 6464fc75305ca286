//go:build !windows

package report

import (
	"os"
)

// syncDir fsyncs a directory so the rename of the report is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
