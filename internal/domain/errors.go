package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFieldError reports required fields absent from an input dataset.
// The whole call fails; no partial computation is attempted.
type MissingFieldError struct {
	Dataset string
	Fields  []string
}

// NewMissingFieldError builds the error with a deduplicated, sorted field list
// so the message is stable regardless of input row order.
func NewMissingFieldError(dataset string, fields ...string) *MissingFieldError {
	seen := make(map[string]struct{}, len(fields))
	unique := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}
	sort.Strings(unique)
	return &MissingFieldError{Dataset: dataset, Fields: unique}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("dataset %q is missing required fields: %s", e.Dataset, strings.Join(e.Fields, ", "))
}

// FieldViolation identifies one malformed value on one input record.
type FieldViolation struct {
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Reason   string `json:"reason"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s.%s: %s", v.RecordID, v.Field, v.Reason)
}

// InvalidExposureError reports malformed numeric values (NaN, negative
// amounts, out-of-range probabilities) on specific records. The whole call
// fails; rows are never silently skipped.
type InvalidExposureError struct {
	Dataset    string
	Violations []FieldViolation
}

func (e *InvalidExposureError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("dataset %q has an invalid record: %s", e.Dataset, e.Violations[0])
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("dataset %q has %d invalid records: %s", e.Dataset, len(e.Violations), strings.Join(parts, "; "))
}
