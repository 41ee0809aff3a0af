// Package csvimport reads and validates admin-uploaded CSV files for bulk
// catalog loading. It deals with the realities of spreadsheet exports:
// UTF-8 BOMs, stray whitespace, uneven field counts and blank lines.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVParser reads a headered CSV stream row by row.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headers    []string
	headerSet  map[string]int
	currentRow int
	reader     *csv.Reader
}

// ParserOption configures a CSVParser.
type ParserOption func(*CSVParser)

// WithDelimiter overrides the field delimiter. Comma by default; some
// European spreadsheet exports use semicolons.
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes controls tolerance for bare quotes inside fields.
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithTrimSpace controls trimming of surrounding whitespace on headers
// and field values.
func WithTrimSpace(trim bool) ParserOption {
	return func(p *CSVParser) {
		p.trimSpace = trim
	}
}

// NewCSVParser wraps r in a parser. It strips a UTF-8 BOM if present and
// rejects empty or non-UTF-8 input up front.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
		headerSet:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = p.lazyQuotes
	p.reader.TrimLeadingSpace = p.trimSpace
	p.reader.FieldsPerRecord = -1

	return p, nil
}

// ParseFromBytes builds a parser over an in-memory file.
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

func checkUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader consumes the header row. It must be called before ReadRow.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		if p.trimSpace {
			h = strings.TrimSpace(h)
		}
		p.headers[i] = h
		p.headerSet[h] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1
	return nil
}

// Headers returns the parsed header names in file order.
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader reports whether the file declares the named column.
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerSet[name]
	return ok
}

// ValidateHeaders returns the required columns the file does not declare.
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed data row. LineNumber counts from the top of the
// file, header included, so it matches what the admin sees in a
// spreadsheet.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value of the named column, empty if absent.
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every field in the row is blank.
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. Short rows are padded with empty
// values; extra fields beyond the header are dropped.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if i < len(record) {
			value := record[i]
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
			row.Data[header] = value
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows drains the file, skipping fully blank rows.
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CurrentRow returns the 1-indexed number of the last row read.
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}
