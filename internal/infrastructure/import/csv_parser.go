// Package csvimport parses and validates CSV uploads for bulk student and
// room imports.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVParser reads a header row followed by data rows. The input may be UTF-8
// with or without a BOM, or UTF-16 with a BOM as saved by spreadsheet tools.
type CSVParser struct {
	delimiter  rune
	maxRows    int
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithMaxRows limits the number of data rows ReadAllRows accepts
func WithMaxRows(n int) ParserOption {
	return func(p *CSVParser) {
		p.maxRows = n
	}
}

// NewCSVParser creates a parser and decodes the input to UTF-8
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(parser)
	}

	decoded, err := decode(r)
	if err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(decoded)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = true
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1
	return parser, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// replacementChar is what the decoder substitutes for bytes that are not
// valid in the detected encoding
var replacementChar = []byte("\uFFFD")

// decode strips a UTF-8 BOM and transcodes UTF-16 input. Input in any other
// encoding is rejected when the first block does not decode cleanly.
func decode(r io.Reader) (*bufio.Reader, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReader(transform.NewReader(r, decoder))

	const checkSize = 4096
	content, err := br.Peek(checkSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}
	if bytes.Contains(content, replacementChar) {
		return nil, ErrInvalidEncoding
	}
	return br, nil
}

// ParseHeader reads the header row. Header names are normalized to lower
// snake case so "Student Number" matches student_number.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, 0, len(record))
	for i, h := range record {
		header := NormalizeHeader(h)
		if header == "" {
			continue
		}
		p.headers = append(p.headers, header)
		p.headerMap[header] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// NormalizeHeader lowercases a header and joins words with underscores
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	}), "_")
}

// Headers returns the normalized header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// ValidateHeaders returns the required headers that are missing
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is a data row keyed by header. LineNumber is the line in the file
// where the record starts.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or def when it is empty
func (r *Row) GetOrDefault(header, def string) string {
	if val := r.Data[header]; val != "" {
		return val
	}
	return def
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next row. It returns io.EOF at the end of input.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			p.currentRow = parseErr.StartLine
		}
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	// blank lines are skipped by the reader, so take the line from the reader
	p.currentRow, _ = p.reader.FieldPos(0)
	p.totalRows++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for _, header := range p.headers {
		idx := p.headerMap[header]
		if idx < len(record) {
			row.Data[header] = strings.TrimSpace(record[idx])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAllRows reads the remaining rows, skipping blank lines
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		if p.maxRows > 0 && len(rows) >= p.maxRows {
			return rows, ErrTooManyRows
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TotalRows returns the number of data rows read, blank ones included
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}
