// Package fasta parses record-marker delimited sequence files.
//
// A record starts at a line beginning with '>' and the rest of that line is
// the record identifier. Every following non-empty line, up to the next
// marker or end of input, is appended verbatim to the record's sequence.
// Nothing is trimmed, case-folded or validated against an alphabet.
//
// Files are read through a single read-only memory mapping (see Open), and
// single-line sequences alias the mapping without copying.
package fasta

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"unicode/utf8"
)

// Marker is the first byte of a record header line.
const Marker = '>'

// Sequence store errors
var (
	ErrIO       = errors.New("sequence file unreadable")
	ErrFormat   = errors.New("no record marker found")
	ErrIdentity = errors.New("record identifier is empty")
)

// Record is one parsed sequence record.
type Record struct {
	// ID is the header line without the leading marker.
	ID string
	// Seq is the concatenation of all body lines. It may be empty.
	Seq []byte
}

// Logger receives parser diagnostics that do not abort parsing.
type Logger interface {
	Log(level string, msg string, fields map[string]any)
}

type defaultLogger struct{}

func (defaultLogger) Log(level string, msg string, fields map[string]any) {
	log.Printf("[fasta] level=%s msg=%s fields=%v", level, msg, fields)
}

var logger Logger = defaultLogger{}

// SetLogger replaces the diagnostics sink. Passing nil restores the default.
func SetLogger(l Logger) {
	if l == nil {
		l = defaultLogger{}
	}
	logger = l
}

// Parse splits buf into records.
//
// Body lines that appear before the first marker are ignored. A record whose
// body is empty is kept with an empty Seq. Parse returns ErrFormat if buf has
// no marker line and ErrIdentity if a marker line carries no identifier.
//
// Returned sequences may alias buf; buf must stay valid and unmodified for as
// long as the records are used.
func Parse(buf []byte) ([]Record, error) {
	var (
		records []Record
		cur     *Record
	)

	for len(buf) > 0 {
		var line []byte
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			line, buf = buf[:i], buf[i+1:]
		} else {
			line, buf = buf, nil
		}
		if len(line) == 0 {
			continue
		}

		if line[0] == Marker {
			id, err := decodeLabel(line[1:], len(records))
			if err != nil {
				return nil, err
			}
			records = append(records, Record{ID: id})
			cur = &records[len(records)-1]
			continue
		}
		if cur == nil {
			continue
		}
		if cur.Seq == nil {
			// Cap the alias so a later append copies instead of writing
			// into the caller's buffer.
			cur.Seq = line[:len(line):len(line)]
		} else {
			cur.Seq = append(cur.Seq, line...)
		}
	}

	if len(records) == 0 {
		return nil, ErrFormat
	}
	return records, nil
}

func decodeLabel(label []byte, index int) (string, error) {
	if len(label) == 0 {
		return "", ErrIdentity
	}
	if utf8.Valid(label) {
		return string(label), nil
	}
	id := decodeLossy(label)
	logger.Log("WARN", "invalid UTF-8 in record identifier, decoded lossily", map[string]any{
		"record": index,
		"id":     id,
	})
	return id, nil
}

// decodeLossy converts b to a string, writing one U+FFFD for every maximal
// subpart of an ill-formed sequence. "\xe2\x82" becomes one replacement
// while "\xff\xfe" becomes two.
func decodeLossy(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2*utf8.UTFMax)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteRune(utf8.RuneError)
			b = b[invalidPrefix(b):]
			continue
		}
		sb.Write(b[:size])
		b = b[size:]
	}
	return sb.String()
}

// invalidPrefix returns the length of the maximal subpart at the start of b,
// which is known not to begin with a complete valid sequence.
func invalidPrefix(b []byte) int {
	var n int
	lo, hi := byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		n = 2
	case c == 0xE0:
		n, lo = 3, 0xA0
	case c == 0xED:
		n, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		n = 3
	case c == 0xF0:
		n, lo = 4, 0x90
	case c == 0xF4:
		n, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		n = 4
	default:
		return 1
	}
	if len(b) < 2 || b[1] < lo || b[1] > hi {
		return 1
	}
	i := 2
	for i < n-1 && i < len(b) && b[i] >= 0x80 && b[i] <= 0xBF {
		i++
	}
	return i
}
