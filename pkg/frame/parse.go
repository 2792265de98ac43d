package frame

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Upload is a file as received from the client: declared name plus bytes.
type Upload struct {
	Name    string
	Content []byte
}

// Parse decodes an upload into a Frame, dispatching on the file format.
// The encoding only applies to CSV input.
func Parse(upload Upload, encodingName string) (*Frame, error) {
	format, err := ParseFormat(upload.Name)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return ParseCSV(upload.Name, upload.Content, encodingName)
	case FormatExcel:
		return ParseExcel(upload.Name, upload.Content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseCSV decodes CSV bytes written in the named character encoding.
// The first record is the header.
func ParseCSV(name string, data []byte, encodingName string) (*Frame, error) {
	if strings.TrimSpace(encodingName) == "" {
		encodingName = DefaultEncoding
	}
	text, err := decodeText(data, encodingName)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("read csv: expected %d fields in line %d, saw %d", len(header), line, len(record))
		}
		rows = append(rows, record)
	}

	return newFrame(name, FormatCSV, header, rows), nil
}

// ParseExcel decodes the first worksheet of an xlsx workbook.
// Cells beyond the header width get "Unnamed: <i>" columns.
func ParseExcel(name string, data []byte) (*Frame, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	rows := records[1:]
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}

	return newFrame(name, FormatExcel, header, rows), nil
}
