package validation

import (
	"go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/logger"
	"go-qc-inspector/internal/table"

	"github.com/sirupsen/logrus"
)

// Thresholds defines the exclusive upper bounds a row must stay under to pass QC
type Thresholds struct {
	// Sharpness check
	SharpnessColumn string
	SharpnessMax    float64

	// Specular reflection check
	SpecularColumn string
	SpecularMax    float64
}

// DefaultThresholds returns the thresholds used for the iPhone 13 Mini capture set
func DefaultThresholds() Thresholds {
	return Thresholds{
		SharpnessColumn: "checkFrameSharpness",
		SharpnessMax:    0.2579,
		SpecularColumn:  "checkSpecularReflection",
		SpecularMax:     1.05,
	}
}

// VerdictValidator decides whether a QC row passes both thresholds
type VerdictValidator struct {
	thresholds Thresholds
}

// NewVerdictValidator creates a validator with default thresholds
func NewVerdictValidator() *VerdictValidator {
	return &VerdictValidator{
		thresholds: DefaultThresholds(),
	}
}

// NewVerdictValidatorWithThresholds creates a validator with custom thresholds
func NewVerdictValidatorWithThresholds(thresholds Thresholds) *VerdictValidator {
	return &VerdictValidator{
		thresholds: thresholds,
	}
}

// Thresholds returns the configured thresholds
func (v *VerdictValidator) Thresholds() Thresholds {
	return v.thresholds
}

// QualityIssue represents a failed QC check
type QualityIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"`
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// Issues lists every check the row fails. A missing metric column is an
// error, not an issue. NaN values fail their check.
func (v *VerdictValidator) Issues(row table.Row) ([]QualityIssue, error) {
	sharpness, err := metric(row, v.thresholds.SharpnessColumn)
	if err != nil {
		return nil, err
	}
	specular, err := metric(row, v.thresholds.SpecularColumn)
	if err != nil {
		return nil, err
	}

	var issues []QualityIssue
	if !(sharpness < v.thresholds.SharpnessMax) {
		issues = append(issues, QualityIssue{
			Type:        "sharpness",
			Message:     "Frame sharpness score is not below threshold",
			Severity:    "error",
			ActualValue: sharpness,
			Threshold:   v.thresholds.SharpnessMax,
		})
	}
	if !(specular < v.thresholds.SpecularMax) {
		issues = append(issues, QualityIssue{
			Type:        "specular_reflection",
			Message:     "Specular reflection score is not below threshold",
			Severity:    "error",
			ActualValue: specular,
			Threshold:   v.thresholds.SpecularMax,
		})
	}
	return issues, nil
}

// DidPassQC is true only when sharpness < SharpnessMax and specular < SpecularMax
func (v *VerdictValidator) DidPassQC(row table.Row) (bool, error) {
	issues, err := v.Issues(row)
	if err != nil {
		return false, err
	}
	return len(issues) == 0, nil
}

// Annotate appends the verdict for every row as a bool column and returns
// how many rows passed
func (v *VerdictValidator) Annotate(t *table.Table, column string) (int, error) {
	passed := 0
	err := t.AddBoolColumn(column, func(row table.Row) (bool, error) {
		issues, err := v.Issues(row)
		if err != nil {
			return false, err
		}
		if len(issues) > 0 {
			logger.WithFields(logrus.Fields{
				"filepath": row.FilePath,
				"issues":   issues,
			}).Debug("Row failed QC")
			return false, nil
		}
		passed++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return passed, nil
}

func metric(row table.Row, column string) (float64, error) {
	value, ok := row.Value(column)
	if !ok {
		return 0, errors.NewSchemaError("metric column not found", nil).WithDetails("column=%s", column)
	}
	return value, nil
}
