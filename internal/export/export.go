// Package export renders a session's inventory as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/tagscan/internal/ledger"
	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
	FormatYAML    Format = "yaml"
)

// ParseFormat accepts a format name, defaulting to CSV when empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatParquet, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: csv, xlsx, parquet, yaml)", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/csv; charset=utf-8"
	}
}

// NameScheme selects the download file naming convention.
type NameScheme string

const (
	// NameByLocation produces Patrimonio_<location>.<ext>.
	NameByLocation NameScheme = "location"
	// NameSchool produces patrimonio_escola.<ext>.
	NameSchool NameScheme = "school"
)

// ParseNameScheme maps a configured value to a NameScheme. Empty selects
// NameByLocation.
func ParseNameScheme(s string) (NameScheme, error) {
	switch n := NameScheme(strings.ToLower(strings.TrimSpace(s))); n {
	case "":
		return NameByLocation, nil
	case NameByLocation, NameSchool:
		return n, nil
	default:
		return "", fmt.Errorf("unknown export name scheme: %s (supported: location, school)", s)
	}
}

// FileName builds the download name. An empty location falls back to the
// school-wide name.
func FileName(location string, format Format, scheme NameScheme) string {
	loc := models.SanitizeLocation(location)
	if scheme == NameSchool || loc == "" {
		return "patrimonio_escola." + string(format)
	}
	return "Patrimonio_" + loc + "." + string(format)
}

// Snapshot is the state rendered by Write.
type Snapshot struct {
	Location string
	Records  []models.Record
	Table    models.Table
}

// ToTable returns the pivoted grid for the ledger.
func ToTable(l *ledger.Ledger) models.Table {
	return l.Pivot()
}

// Write renders the snapshot in the requested format.
func Write(w io.Writer, format Format, snap Snapshot) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, snap.Table)
	case FormatXLSX:
		return WriteXLSX(w, snap.Table)
	case FormatParquet:
		return WriteParquet(w, snap.Records)
	case FormatYAML:
		return WriteYAML(w, snap.Location, snap.Table)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// Serialize returns the table as UTF-8 comma separated bytes.
func Serialize(table models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a header of category names followed by the padded rows.
// An empty table produces no output.
func WriteCSV(w io.Writer, table models.Table) error {
	if table.Empty() {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
