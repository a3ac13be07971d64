package engine

import (
	"fmt"
	"strings"
)

// Event is the building block of a generation pass. Every store mutation is
// represented as an Event so a pass can be logged and replayed.
type Event interface {
	Type() string
	Apply(store *Store) error
	Message() string
}

// ResetEvent returns every variable to its kind default.
type ResetEvent struct{}

func (e *ResetEvent) Type() string { return "ResetEvent" }
func (e *ResetEvent) Apply(store *Store) error {
	store.reset()
	return nil
}
func (e *ResetEvent) Message() string { return "item cleared" }

// VariableSetEvent seeds an input variable before a pass.
type VariableSetEvent struct {
	Variable string `json:"variable"`
	Value    any    `json:"value"`
}

func (e *VariableSetEvent) Type() string { return "VariableSetEvent" }
func (e *VariableSetEvent) Apply(store *Store) error {
	return store.assign(e.Variable, e.Value)
}
func (e *VariableSetEvent) Message() string {
	return fmt.Sprintf("%s set to %v", e.Variable, e.Value)
}

// TableRolledEvent marks the start of one roll on a table.
type TableRolledEvent struct {
	Table string `json:"table"`
}

func (e *TableRolledEvent) Type() string             { return "TableRolledEvent" }
func (e *TableRolledEvent) Apply(store *Store) error { return nil }
func (e *TableRolledEvent) Message() string          { return "rolling on " + e.Table }

// DiceRolledEvent records a drawn value.
type DiceRolledEvent struct {
	Kind   string `json:"kind"`
	Result int    `json:"result"`
}

func (e *DiceRolledEvent) Type() string             { return "DiceRolledEvent" }
func (e *DiceRolledEvent) Apply(store *Store) error { return nil }
func (e *DiceRolledEvent) Message() string {
	return fmt.Sprintf("%s roll = %d", e.Kind, e.Result)
}

// ValueSavedEvent overwrites a string variable.
type ValueSavedEvent struct {
	Variable string `json:"variable"`
	Value    string `json:"value"`
}

func (e *ValueSavedEvent) Type() string { return "ValueSavedEvent" }
func (e *ValueSavedEvent) Apply(store *Store) error {
	v, err := lookup(store, e.Variable, KindString)
	if err != nil {
		return err
	}
	v.Text = e.Value
	return nil
}
func (e *ValueSavedEvent) Message() string {
	return fmt.Sprintf("%s = %s", e.Variable, e.Value)
}

// ListAppendedEvent appends a tagged element to a list variable.
type ListAppendedEvent struct {
	Variable string `json:"variable"`
	Tag      string `json:"tag"`
	Value    string `json:"value"`
}

func (e *ListAppendedEvent) Type() string { return "ListAppendedEvent" }
func (e *ListAppendedEvent) Apply(store *Store) error {
	v, err := lookup(store, e.Variable, KindList)
	if err != nil {
		return err
	}
	v.List = append(v.List, Entry{Tag: e.Tag, Value: e.Value})
	return nil
}
func (e *ListAppendedEvent) Message() string {
	return fmt.Sprintf("%s += %s", e.Variable, e.Value)
}

// NumberAddedEvent adds to a number variable.
type NumberAddedEvent struct {
	Variable string `json:"variable"`
	Amount   int    `json:"amount"`
}

func (e *NumberAddedEvent) Type() string { return "NumberAddedEvent" }
func (e *NumberAddedEvent) Apply(store *Store) error {
	v, err := lookup(store, e.Variable, KindNumber)
	if err != nil {
		return err
	}
	v.Number += e.Amount
	return nil
}
func (e *NumberAddedEvent) Message() string {
	return fmt.Sprintf("%s %+d", e.Variable, e.Amount)
}

// IndexAppliedEvent records an index translation adding Amount to Variable.
type IndexAppliedEvent struct {
	Source   string `json:"source"`
	Index    int    `json:"index"`
	Variable string `json:"variable"`
	Amount   int    `json:"amount"`
}

func (e *IndexAppliedEvent) Type() string { return "IndexAppliedEvent" }
func (e *IndexAppliedEvent) Apply(store *Store) error {
	v, err := lookup(store, e.Variable, KindNumber)
	if err != nil {
		return err
	}
	v.Number += e.Amount
	return nil
}
func (e *IndexAppliedEvent) Message() string {
	return fmt.Sprintf("%s %d: %s %+d", e.Source, e.Index, e.Variable, e.Amount)
}

// lookup finds a variable and checks its kind.
func lookup(store *Store, name string, kind Kind) (*Variable, error) {
	v, ok := store.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	if v.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrTypeMismatch, name, v.Kind, kind)
	}
	return v, nil
}

// Describe joins event messages into a readable trace, skipping blanks.
func Describe(events []Event) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		if msg := e.Message(); msg != "" {
			lines = append(lines, msg)
		}
	}
	return strings.Join(lines, "\n")
}
