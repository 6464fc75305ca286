//go:build !unix

package fasta

import (
	"io"
	"os"
)

// mapFile reads the file into memory on platforms without mmap support in
// golang.org/x/sys/unix.
func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
