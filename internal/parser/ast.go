package parser

import "github.com/suderio/loot-table/internal/engine"

// Assignment seeds one item variable: Name=Value or Name: Value.
type Assignment struct {
	Name  string `parser:"@Ident ( \"=\" | \":\" )"`
	Value *Value `parser:"@@"`
}

// Value is a number, a text (quoted or bare) or a bracketed list.
type Value struct {
	List   *List   `parser:"  @@"`
	Number *int    `parser:"| @Int"`
	Text   *string `parser:"| @(String|Ident)"`
}

// List is a bracketed, comma separated list of texts.
type List struct {
	Open  string   `parser:"@\"[\""`
	Items []string `parser:"( @(String|Ident|Int) ( \",\" @(String|Ident|Int) )* )? \"]\""`
}

// Native returns the value as int, string or []string.
func (v *Value) Native() any {
	switch {
	case v.List != nil:
		items := make([]string, len(v.List.Items))
		copy(items, v.List.Items)
		return items
	case v.Number != nil:
		return *v.Number
	case v.Text != nil:
		return *v.Text
	}
	return nil
}

var assignments = Build()

// ParseAssignment parses a single seed and returns the variable name and its
// native value.
func ParseAssignment(input string) (string, any, error) {
	a, err := assignments.ParseString("", input)
	if err != nil {
		return "", nil, MapError(input, err)
	}
	return a.Name, a.Value.Native(), nil
}

// ParseAssignments parses every input, stopping at the first error.
func ParseAssignments(inputs []string) ([]engine.Seed, error) {
	seeds := make([]engine.Seed, 0, len(inputs))
	for _, in := range inputs {
		name, value, err := ParseAssignment(in)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, engine.Seed{Name: name, Value: value})
	}
	return seeds, nil
}
