package rules

import (
	"github.com/suderio/loot-table/internal/engine"
)

// Roller adapts a random source to the roll() formula function.
func Roller(rng engine.RandomSource) RollFunc {
	return func(sides int) int {
		return rng.Between(1, sides)
	}
}

// Formula is an "expr" gate found in a tree.
type Formula struct {
	Table      string
	Variable   string
	Expression string
}

// Formulas lists every formula gate of tree in table order.
func Formulas(tree *engine.Tree) []Formula {
	var out []Formula
	for _, table := range tree.Tables {
		out = collect(out, table.Name, table.Root)
	}
	return out
}

func collect(out []Formula, table string, n engine.Node) []Formula {
	switch node := n.(type) {
	case *engine.CategorySelector:
		for _, b := range node.Branches {
			out = collect(out, table, b.Target)
		}
	case *engine.RollSelector:
		for _, b := range node.Bands {
			out = collect(out, table, b.Target)
		}
	case *engine.Group:
		out = collect(out, table, node.Child)
	case *engine.ConditionGate:
		if node.Op == engine.OpFormula {
			out = append(out, Formula{Table: table, Variable: node.Variable, Expression: node.Compare})
		}
	}
	return out
}

// Validate compiles every formula gate of tree and reports those that do not
// compile as configuration faults.
func (r *Registry) Validate(tree *engine.Tree) []engine.Diagnostic {
	var diags []engine.Diagnostic
	for _, f := range Formulas(tree) {
		if _, err := r.Compile(f.Expression); err != nil {
			diags = append(diags, engine.Diagnostic{
				Code:     engine.CodeFormula,
				Message:  err.Error(),
				Table:    f.Table,
				Variable: f.Variable,
				Op:       engine.OpFormula,
			})
		}
	}
	return diags
}
