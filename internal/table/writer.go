package table

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	apperrors "go-qc-inspector/internal/errors"
)

// WriteCSV writes t to path, replacing any existing file. Missing parent
// directories are created.
func WriteCSV(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewIOError("failed to create output directory", err).WithDetails("path=%s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewIOError("failed to create CSV", err).WithDetails("path=%s", path)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.NewIOError("failed to close CSV", err).WithDetails("path=%s", path)
	}
	return nil
}

// Write emits a header, then one record per row: the row index under an
// unnamed column, then the key and every other column where the source
// file had them. Added columns follow the source columns.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	fields := t.Fields()
	header := make([]string, 0, len(fields)+1)
	header = append(header, "")
	header = append(header, fields...)
	if err := cw.Write(header); err != nil {
		return apperrors.NewIOError("failed to write CSV header", err)
	}

	record := make([]string, len(header))
	for _, row := range t.Rows {
		record[0] = strconv.Itoa(row.Index)
		for i, c := range fields {
			if c == t.filePathColumn {
				record[i+1] = row.FilePath
				continue
			}
			record[i+1] = formatValue(row.Values[c], t.kinds[c])
		}
		if err := cw.Write(record); err != nil {
			return apperrors.NewIOError("failed to write CSV record", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewIOError("failed to flush CSV", err)
	}
	return nil
}

func formatValue(v float64, kind Kind) string {
	switch {
	case math.IsNaN(v):
		return ""
	case kind == KindBool:
		if v != 0 {
			return "True"
		}
		return "False"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
