// Package sheet locates player rows inside an auction list export.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderMarker identifies the column header row of the auction list.
const HeaderMarker = "List Sr.No."

// DefaultMinFields is the shortest row that still reaches the price column.
const DefaultMinFields = 21

// Discard reasons counted by the locator.
const (
	DiscardBanner    = "banner"
	DiscardEmpty     = "empty"
	DiscardHeader    = "header"
	DiscardShortRow  = "short_row"
	DiscardBadSerial = "bad_serial"
)

// Row is one candidate data row with the 1-based source line it starts on.
type Row struct {
	Line   int
	Fields []string
}

// Field returns the trimmed value at idx, or "" when the row is shorter.
func (r Row) Field(idx int) string {
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[idx])
}

// Serial is the row's running list number.
func (r Row) Serial() string {
	return r.Field(0)
}

// Locator yields data rows lazily in the manner of bufio.Scanner.
// Rows before the header marker, blank rows, short rows and rows without a
// numeric serial are dropped.
type Locator struct {
	reader      *csv.Reader
	closer      io.Closer
	minFields   int
	line        int
	headerFound bool
	current     Row
	err         error
	discarded   map[string]int
}

// NewLocator wraps r. minFields <= 0 uses DefaultMinFields.
func NewLocator(r io.Reader, minFields int) *Locator {
	if minFields <= 0 {
		minFields = DefaultMinFields
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Locator{
		reader:    cr,
		minFields: minFields,
		discarded: make(map[string]int),
	}
}

// Open opens path and returns a locator over it. Callers must Close it.
// Re-opening the same path restarts the sequence.
func Open(path string, minFields int) (*Locator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	l := NewLocator(f, minFields)
	l.closer = f
	return l, nil
}

// Next advances to the next data row. It returns false at end of input or on error.
func (l *Locator) Next() bool {
	if l == nil || l.err != nil {
		return false
	}
	for {
		record, err := l.reader.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			l.err = fmt.Errorf("read input: %w", err)
			return false
		}
		l.line, _ = l.reader.FieldPos(0)

		if isBlank(record) {
			l.discard(DiscardEmpty)
			continue
		}
		if hasHeaderMarker(record) {
			l.headerFound = true
			l.discard(DiscardHeader)
			continue
		}
		if !l.headerFound {
			l.discard(DiscardBanner)
			continue
		}
		if !isSerial(record[0]) {
			l.discard(DiscardBadSerial)
			continue
		}
		if len(record) < l.minFields {
			l.discard(DiscardShortRow)
			continue
		}

		l.current = Row{Line: l.line, Fields: record}
		return true
	}
}

// Row returns the row produced by the last successful Next.
func (l *Locator) Row() Row {
	return l.current
}

// Err returns the first read error, if any.
func (l *Locator) Err() error {
	if l == nil {
		return nil
	}
	return l.err
}

// HeaderFound reports whether the header marker has been seen.
func (l *Locator) HeaderFound() bool {
	return l != nil && l.headerFound
}

// Discarded returns a copy of the per-reason discard counts.
func (l *Locator) Discarded() map[string]int {
	out := make(map[string]int, len(l.discarded))
	for k, v := range l.discarded {
		out[k] = v
	}
	return out
}

// Close releases the underlying file when the locator owns one.
func (l *Locator) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// ReadAll drains the locator into a slice.
func (l *Locator) ReadAll() ([]Row, error) {
	var rows []Row
	for l.Next() {
		rows = append(rows, l.Row())
	}
	return rows, l.Err()
}

func (l *Locator) discard(reason string) {
	l.discarded[reason]++
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func hasHeaderMarker(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) == HeaderMarker {
			return true
		}
	}
	return false
}

func isSerial(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
