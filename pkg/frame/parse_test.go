package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "titanic.csv", want: FormatCSV},
		{filename: "Report.XLSX", want: FormatExcel},
		{filename: " data.Csv ", want: FormatCSV},
		{filename: "legacy.xls", wantErr: true},
		{filename: "notes.txt", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ParseFormat(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSV(t *testing.T) {
	data := []byte("name,age,city\nAlice,30,Paris\nBob,25,Berlin\nCarol,41\n")

	f, err := ParseCSV("people.csv", data, "")
	require.NoError(t, err)

	rows, cols := f.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"name", "age", "city"}, f.Columns)
	assert.Equal(t, []string{"Carol", "41", ""}, f.Rows[2])
	assert.Equal(t, FormatCSV, f.Format)
	assert.Equal(t, "people.csv", f.Name)
}

func TestParseCSV_StripsBOMAndNormalizesHeader(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,,id\n1,2,3\n")...)

	f, err := ParseCSV("bom.csv", data, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1"}, f.Columns)
}

func TestParseCSV_TooManyFields(t *testing.T) {
	_, err := ParseCSV("bad.csv", []byte("a,b\n1,2,3\n"), "utf-8")
	require.Error(t, err)

	var encErr *EncodingError
	assert.False(t, errors.As(err, &encErr))
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV("empty.csv", nil, "utf-8")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseCSV_EncodingMismatch(t *testing.T) {
	// "café" in latin-1
	latin1 := []byte("word\ncaf\xe9\n")

	tests := []struct {
		name     string
		encoding string
		wantErr  bool
		want     string
	}{
		{name: "utf-8 cannot decode latin-1", encoding: "utf-8", wantErr: true},
		{name: "ascii cannot decode latin-1", encoding: "ascii", wantErr: true},
		{name: "latin-1 decodes", encoding: "latin-1", want: "café"},
		{name: "iso-8859-1 decodes", encoding: "ISO_8859_1", want: "café"},
		{name: "unknown encoding", encoding: "klingon-8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseCSV("words.csv", latin1, tt.encoding)
			if tt.wantErr {
				assert.Nil(t, f)
				var encErr *EncodingError
				require.ErrorAs(t, err, &encErr)
				assert.Equal(t, tt.encoding, encErr.Encoding)
				assert.Contains(t, err.Error(), tt.encoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Rows[0][0])
		})
	}
}

func TestParseCSV_UTF16(t *testing.T) {
	// "a,b\n1,2\n" as UTF-16LE with BOM
	data := []byte{0xFF, 0xFE}
	for _, r := range "a,b\n1,2\n" {
		data = append(data, byte(r), 0x00)
	}

	f, err := ParseCSV("wide.csv", data, "utf-16")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, f.Rows)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, book.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseExcel(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Name", "Fare"},
		{"Braund", 7.25},
		{"Cumings", 71.2833},
		{"Heikkinen", 7.925, "extra"},
	})

	f, err := ParseExcel("fares.xlsx", data)
	require.NoError(t, err)

	rows, cols := f.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"Name", "Fare", "Unnamed: 2"}, f.Columns)
	assert.Equal(t, "", f.Rows[0][2])
	assert.Equal(t, FormatExcel, f.Format)
}

func TestParseExcel_Corrupt(t *testing.T) {
	_, err := ParseExcel("broken.xlsx", []byte("definitely not a zip"))
	require.Error(t, err)

	var encErr *EncodingError
	assert.False(t, errors.As(err, &encErr))
}

func TestParse_Dispatch(t *testing.T) {
	csvFrame, err := Parse(Upload{Name: "a.csv", Content: []byte("x\n1\n")}, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, csvFrame.Format)

	xlsx := buildWorkbook(t, [][]any{{"x"}, {1}})
	xlsxFrame, err := Parse(Upload{Name: "a.xlsx", Content: xlsx}, "klingon-8")
	require.NoError(t, err, "encoding is ignored for workbooks")
	assert.Equal(t, FormatExcel, xlsxFrame.Format)

	_, err = Parse(Upload{Name: "a.json", Content: []byte("{}")}, "utf-8")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
