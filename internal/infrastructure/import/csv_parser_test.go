package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBFemail,name\na@x.io,Ann"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"email", "name"}, parser.Headers())
	})

	t.Run("UTF-16 little endian with BOM is decoded", func(t *testing.T) {
		encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := encoder.String("email,name\nzoe@x.io,Zoë\n")
		require.NoError(t, err)

		parser, err := ParseFromBytes([]byte(data))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Zoë", row.Get("name"))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader(" \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("latin-1 bytes are rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("name\nJos\xe9\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("custom delimiter", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("number;block\nA-1;A"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"number", "block"}, parser.Headers())
	})
}

func TestParseHeader_Normalizes(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader(" Student Number ,E-Mail,,monthly_rent\n1,a@x.io,,10"))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	assert.Equal(t, []string{"student_number", "e_mail", "monthly_rent"}, parser.Headers())
	assert.True(t, parser.HasHeader("monthly_rent"))
	assert.Equal(t, []string{"phone"}, parser.ValidateHeaders([]string{"student_number", "phone"}))

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "10", row.Get("monthly_rent"), "columns after a blank header keep their position")
}

func TestParseHeader_Missing(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader(",,\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, parser.ParseHeader(), ErrMissingHeader)
}

func TestReadRow(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader("number,block,floor\nA-101, A ,1\nA-102"))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "A", row.Get("block"))

	row, err = parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 3, row.LineNumber)
	assert.Equal(t, "", row.Get("floor"), "short rows are padded")
	assert.Equal(t, "1", row.GetOrDefault("floor", "1"))

	_, err = parser.ReadRow()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, parser.TotalRows())
}

func TestReadAllRows(t *testing.T) {
	t.Run("skips blank rows", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("email,name\na@x.io,A\n,\nb@x.io,B\n"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 4, rows[1].LineNumber)
	})

	t.Run("enforces max rows", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("n\n1\n2\n3\n"), WithMaxRows(2))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()
		assert.ErrorIs(t, err, ErrTooManyRows)
		assert.Len(t, rows, 2)
	})
}
