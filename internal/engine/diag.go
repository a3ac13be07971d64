package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a malformed tree. Generation aborts.
	ErrConfiguration = errors.New("loot table configuration fault")
	// ErrUnknownVariable is returned when seeding a variable the store does not declare.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrTypeMismatch is returned when a seed value does not fit the variable's kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotIdle is returned by RollDefault when the previous pass was not reset.
	ErrNotIdle = errors.New("generator must be reset before rolling")
)

// Diagnostic codes. E_ codes are configuration faults, W_ codes are
// recovered locally and only logged.
const (
	CodeMissingFallback = "E_MISSING_FALLBACK"
	CodeRollKind        = "E_ROLL_KIND"
	CodeUnknownTable    = "E_UNKNOWN_TABLE"
	CodeRerollCap       = "E_REROLL_CAP"
	CodeEmptyTable      = "E_EMPTY_TABLE"
	CodeFormula         = "E_FORMULA"

	CodeNoCategory    = "W_NO_CATEGORY"
	CodeCategoryKind  = "W_CATEGORY_KIND"
	CodeNoBand        = "W_NO_BAND"
	CodeNotTerminal   = "W_NOT_TERMINAL"
	CodeCheckTarget   = "W_CHECK_TARGET"
	CodeCheckOp       = "W_CHECK_OP"
	CodeCheckKind     = "W_CHECK_KIND"
	CodeCheckValue    = "W_CHECK_VALUE"
	CodeCheckFailed   = "W_CHECK_FAILED"
	CodeUnknownAction = "W_UNKNOWN_ACTION"
	CodeUnknownTarget = "W_UNKNOWN_TARGET"
	CodeSaveKind      = "W_SAVE_KIND"
	CodeAddNumKind    = "W_ADDNUM_KIND"
)

// Diagnostic describes a fault or warning raised while validating or rolling.
type Diagnostic struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Table    string `json:"table,omitempty"`
	Variable string `json:"variable,omitempty"`
	Op       string `json:"op,omitempty"`
}

// IsFault reports whether the diagnostic aborts generation.
func (d Diagnostic) IsFault() bool {
	return strings.HasPrefix(d.Code, "E_")
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", d.Code, d.Message)
	if d.Table != "" {
		fmt.Fprintf(&b, " (table %s)", d.Table)
	}
	if d.Variable != "" {
		fmt.Fprintf(&b, " (variable %s)", d.Variable)
	}
	if d.Op != "" {
		fmt.Fprintf(&b, " (op %s)", d.Op)
	}
	return b.String()
}

// Fault is a configuration fault surfaced to the caller.
type Fault struct {
	Diagnostics []Diagnostic
}

func (f *Fault) Error() string {
	parts := make([]string, len(f.Diagnostics))
	for i, d := range f.Diagnostics {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%v: %s", ErrConfiguration, strings.Join(parts, "; "))
}

func (f *Fault) Unwrap() error { return ErrConfiguration }

func fault(d Diagnostic) *Fault {
	return &Fault{Diagnostics: []Diagnostic{d}}
}
