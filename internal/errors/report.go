package errors

import (
	"encoding/json"
	"errors"

	"github.com/veylang/typecore/internal/ast"
)

// Fix is an optional suggested remediation attached to a Report, e.g. a
// did-you-mean suggestion from overload resolution (§4.5 step 4).
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured error type for the core (§7).
// Every error-producing operation returns (or wraps) one of these
// rather than a bare error string, so callers can branch on Code.
type Report struct {
	Schema  string         `json:"schema"`         // Always "typecore.error/v1"
	Code    string         `json:"code"`           // One of the TC### codes in codes.go
	Phase   string         `json:"phase"`          // Component that raised it: "subtype", "unify", "instantiate", "registrar"
	Message string         `json:"message"`        // Human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // Source location (optional)
	Data    map[string]any `json:"data,omitempty"` // Structured data (sorted keys via encoding/json)
	Fix     *Fix           `json:"fix,omitempty"`  // Suggested fix (optional)
}

// ReportError wraps a Report as an error
// This allows structured reports to survive errors.As() unwrapping
type ReportError struct {
	Rep *Report
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain
// Returns the Report and true if found, nil and false otherwise
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError
// Call sites should return errors.WrapReport(report) to preserve structure
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic, sorted keys)
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric creates a generic error report wrapping a plain error.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "typecore.error/v1",
		Code:    "TC000",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

// New builds a Report for one of the codes in codes.go.
func New(phase, code, message string, span *ast.Span) *Report {
	return &Report{
		Schema:  "typecore.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
		Data:    map[string]any{},
	}
}

// WithData attaches a structured data field and returns the Report for
// chaining, e.g. `errors.New(...).WithData("expected", t.String())`.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// WithFix attaches a suggested fix and returns the Report for chaining.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}
