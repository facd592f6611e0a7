package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var ErrNoData = errors.New("no data to export")

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Sheet1"
)

// Column maps one header to the accessor producing its cell text.
type Column[T any] struct {
	Header   string
	Accessor func(T) string
}

func headers[T any](columns []Column[T]) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

func row[T any](record T, columns []Column[T]) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Accessor(record)
	}
	return out
}

// WriteCSV writes a header row and one row per record. Fields holding a
// comma, quote or line break are quoted.
func WriteCSV[T any](w io.Writer, records []T, columns []Column[T]) error {
	if len(records) == 0 {
		return ErrNoData
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(headers(columns)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(row(r, columns)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
func WriteXLSX[T any](w io.Writer, records []T, columns []Column[T]) error {
	if len(records) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, headers(columns)); err != nil {
		return err
	}
	for i, r := range records {
		if err := setRow(f, i+2, row(r, columns)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNo int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to set row %d: %w", rowNo, err)
	}
	return nil
}

// Render encodes records in the requested format and returns the bytes
// with their content type. An unknown format falls back to CSV.
func Render[T any](format string, records []T, columns []Column[T]) ([]byte, string, error) {
	var buf bytes.Buffer
	if format == FormatXLSX {
		if err := WriteXLSX(&buf, records, columns); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypeXLSX, nil
	}
	if err := WriteCSV(&buf, records, columns); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ContentTypeCSV, nil
}
