package fasta

import (
	"fmt"
	"math"
	"os"
)

// File is a parsed, memory-mapped sequence file.
//
// Record sequences may point into the mapping, so they are only valid until
// Close is called. Record IDs are independent copies.
type File struct {
	Path    string
	Records []Record

	data  []byte
	unmap func() error
}

// Open maps the whole file at path read-only and parses it.
//
// Errors wrap ErrIO when the file is missing, unreadable, empty or cannot be
// mapped, and ErrFormat or ErrIdentity when its contents cannot be parsed.
// Every error message names the path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	size := st.Size()
	switch {
	case st.IsDir():
		return nil, fmt.Errorf("%w: %s: is a directory", ErrIO, path)
	case size == 0:
		return nil, fmt.Errorf("%w: %s: empty file", ErrIO, path)
	case size > math.MaxInt:
		return nil, fmt.Errorf("%w: %s: file too large to map (%d bytes)", ErrIO, path, size)
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}

	records, err := Parse(data)
	if err != nil {
		unmap()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{
		Path:    path,
		Records: records,
		data:    data,
		unmap:   unmap,
	}, nil
}

// First returns the first record of the file. Additional records are ignored.
func (f *File) First() (Record, error) {
	if len(f.Records) == 0 {
		return Record{}, fmt.Errorf("%s: %w", f.Path, ErrFormat)
	}
	return f.Records[0], nil
}

// Size returns the number of mapped bytes.
func (f *File) Size() int {
	return len(f.data)
}

// Close releases the mapping. Sequences obtained from the file must not be
// used afterwards.
func (f *File) Close() error {
	if f.unmap == nil {
		return nil
	}
	err := f.unmap()
	f.unmap = nil
	f.data = nil
	f.Records = nil
	return err
}
