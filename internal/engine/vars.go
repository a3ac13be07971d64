package engine

import (
	"fmt"
	"strings"
)

// Kind is the declared type of an item variable.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindList
)

var kindNames = map[string]Kind{
	"number": KindNumber,
	"string": KindString,
	"list":   KindList,
}

// ParseKind converts a declared type name ("number", "string", "list") into a Kind.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown variable type %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Entry is one element of a list variable. Tag is the name declared on the
// action that appended it.
type Entry struct {
	Tag   string `json:"tag" yaml:"tag"`
	Value string `json:"value" yaml:"value"`
}

// VarDef declares a variable of the store.
type VarDef struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// Variable is a named, typed value held by the Store.
type Variable struct {
	Name   string
	Kind   Kind
	Number int
	Text   string
	List   []Entry
}

// Value returns the variable's current value as int, string or []Entry.
func (v *Variable) Value() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindString:
		return v.Text
	default:
		out := make([]Entry, len(v.List))
		copy(out, v.List)
		return out
	}
}

func (v *Variable) reset() {
	v.Number = 0
	v.Text = ""
	v.List = nil
}

// Seed is an input value applied with SetVariable before a pass.
type Seed struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// Snapshot is a read-only copy of one variable taken by ExportState.
type Snapshot struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Store is the ordered set of item variables. Outside the package it is
// read-only; mutations go through events.
type Store struct {
	order []string
	vars  map[string]*Variable
}

// NewStore creates a store holding the given declarations at their defaults.
// Duplicate names keep the first declaration.
func NewStore(defs []VarDef) *Store {
	s := &Store{vars: make(map[string]*Variable, len(defs))}
	for _, d := range defs {
		if _, ok := s.vars[d.Name]; ok {
			continue
		}
		s.order = append(s.order, d.Name)
		s.vars[d.Name] = &Variable{Name: d.Name, Kind: d.Kind}
	}
	return s
}

// Get looks up a variable by name.
func (s *Store) Get(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Names returns variable names in declaration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Snapshot copies every variable in declaration order.
func (s *Store) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, len(s.order))
	for _, name := range s.order {
		v := s.vars[name]
		out = append(out, Snapshot{Name: name, Kind: v.Kind.String(), Value: v.Value()})
	}
	return out
}

// Map returns name → value. List values are flattened to their string values.
func (s *Store) Map() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, name := range s.order {
		v := s.vars[name]
		switch v.Kind {
		case KindList:
			vals := make([]string, len(v.List))
			for i, e := range v.List {
				vals[i] = e.Value
			}
			out[name] = vals
		default:
			out[name] = v.Value()
		}
	}
	return out
}

func (s *Store) reset() {
	for _, v := range s.vars {
		v.reset()
	}
}

// assign writes a seed value, checking its shape against the declared kind.
func (s *Store) assign(name string, value any) error {
	v, ok := s.vars[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	switch v.Kind {
	case KindNumber:
		n, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%w: %s is a number, got %T", ErrTypeMismatch, name, value)
		}
		v.Number = n
	case KindString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s is a string, got %T", ErrTypeMismatch, name, value)
		}
		v.Text = str
	case KindList:
		vals, ok := toStrings(value)
		if !ok {
			return fmt.Errorf("%w: %s is a list, got %T", ErrTypeMismatch, name, value)
		}
		v.List = v.List[:0]
		for _, val := range vals {
			v.List = append(v.List, Entry{Tag: name, Value: val})
		}
	}
	return nil
}

// toInt extracts an int from the numeric types produced by Go callers and JSON decoding.
func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func toStrings(val any) ([]string, bool) {
	switch v := val.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
