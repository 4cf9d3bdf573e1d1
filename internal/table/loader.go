package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/logger"

	"github.com/sirupsen/logrus"
)

// Loader reads delimited QC result files.
type Loader struct {
	filePathColumn string
}

// NewLoader creates a loader keyed on filePathColumn.
func NewLoader(filePathColumn string) *Loader {
	return &Loader{filePathColumn: filePathColumn}
}

// Load reads every path and concatenates the results in order.
func (l *Loader) Load(paths ...string) (*Table, error) {
	if len(paths) == 0 {
		return nil, apperrors.NewLoadError("no input files", nil)
	}
	tables := make([]*Table, 0, len(paths))
	for _, p := range paths {
		t, err := l.LoadCSV(p)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"path":    p,
			"rows":    t.Len(),
			"columns": len(t.columns),
		}).Info("Loaded QC table")
		tables = append(tables, t)
	}
	return Concat(tables...)
}

// LoadCSV reads a single file.
func (l *Loader) LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open QC table", err).WithDetails("path=%s", path)
	}
	defer f.Close()

	t, err := l.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

type columnSpec struct {
	name  string
	pos   int
	index bool
	key   bool
}

// Read parses CSV from r. The header row is required. A leading unnamed
// column is read as the row index; a trailing unnamed column with no values
// (left by exporters that end every line with a delimiter) is dropped.
func (l *Loader) Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewSchemaError("missing header row", nil)
		}
		return nil, apperrors.NewLoadError("failed to read header", err)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read records", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	specs, err := l.headerSpecs(header, records)
	if err != nil {
		return nil, err
	}

	t := New(l.filePathColumn)
	for _, spec := range specs {
		if spec.key {
			break
		}
		if !spec.index {
			t.keyPos++
		}
	}
	t.Rows = make([]Row, len(records))
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, apperrors.NewSchemaError("row has more fields than header", nil).
				WithDetails("row=%d fields=%d header=%d", i, len(rec), len(header))
		}
		t.Rows[i] = Row{Index: i, Values: make(map[string]float64, len(specs))}
	}

	for _, spec := range specs {
		switch {
		case spec.index:
			for i, rec := range records {
				idx, err := strconv.Atoi(strings.TrimSpace(cell(rec, spec.pos)))
				if err != nil {
					return nil, apperrors.NewSchemaError("invalid row index", err).WithDetails("row=%d", i)
				}
				t.Rows[i].Index = idx
			}
		case spec.key:
			for i, rec := range records {
				t.Rows[i].FilePath = cell(rec, spec.pos)
			}
		default:
			kind, values, err := parseColumn(records, spec)
			if err != nil {
				return nil, err
			}
			if err := t.addColumn(spec.name, kind); err != nil {
				return nil, err
			}
			for i := range t.Rows {
				t.Rows[i].Values[spec.name] = values[i]
			}
		}
	}
	return t, nil
}

func (l *Loader) headerSpecs(header []string, records [][]string) ([]columnSpec, error) {
	specs := make([]columnSpec, 0, len(header))
	seen := make(map[string]bool, len(header))
	hasKey := false
	for pos, raw := range header {
		name := strings.TrimSpace(raw)
		spec := columnSpec{name: name, pos: pos}
		switch {
		case name == "" && pos == 0 && len(header) > 1:
			spec.index = true
		case name == "" && pos == len(header)-1 && columnEmpty(records, pos):
			continue
		case name == "":
			spec.name = fmt.Sprintf("Unnamed: %d", pos)
		case name == l.filePathColumn:
			spec.key = true
			hasKey = true
		}
		if seen[spec.name] {
			return nil, apperrors.NewSchemaError("duplicate column", nil).WithDetails("column=%s", spec.name)
		}
		seen[spec.name] = true
		specs = append(specs, spec)
	}
	if !hasKey {
		return nil, apperrors.NewSchemaError("required column missing", nil).WithDetails("column=%s", l.filePathColumn)
	}
	return specs, nil
}

func parseColumn(records [][]string, spec columnSpec) (Kind, []float64, error) {
	values := make([]float64, len(records))
	if isBoolColumn(records, spec.pos) {
		for i, rec := range records {
			switch strings.ToLower(strings.TrimSpace(cell(rec, spec.pos))) {
			case "true":
				values[i] = 1
			case "false":
				values[i] = 0
			default:
				values[i] = math.NaN()
			}
		}
		return KindBool, values, nil
	}

	for i, rec := range records {
		raw := strings.TrimSpace(cell(rec, spec.pos))
		if raw == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, nil, apperrors.NewSchemaError("non-numeric metric value", err).
				WithDetails("column=%s row=%d value=%q", spec.name, i, raw)
		}
		values[i] = v
	}
	return KindFloat, values, nil
}

func isBoolColumn(records [][]string, pos int) bool {
	found := false
	for _, rec := range records {
		switch strings.ToLower(strings.TrimSpace(cell(rec, pos))) {
		case "":
		case "true", "false":
			found = true
		default:
			return false
		}
	}
	return found
}

func columnEmpty(records [][]string, pos int) bool {
	for _, rec := range records {
		if strings.TrimSpace(cell(rec, pos)) != "" {
			return false
		}
	}
	return true
}

// cell tolerates short rows; absent trailing cells read as empty.
func cell(rec []string, pos int) string {
	if pos < len(rec) {
		return rec[pos]
	}
	return ""
}
