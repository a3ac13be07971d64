package engine

import (
	"strconv"
)

// FormulaEvaluator evaluates boolean formulas for gates using the "expr" operator.
type FormulaEvaluator interface {
	EvalBool(formula string, ctx map[string]any) (bool, error)
}

// Check validates the pending change described by gate against the store and
// returns the action list to apply: Primary when it passes, Fallback otherwise.
func (p *Pass) Check(gate *ConditionGate) *ActionList {
	ref := p.referencing(gate)
	if ref == nil {
		p.warn(Diagnostic{
			Code:     CodeCheckTarget,
			Message:  "variable " + gate.Variable + " not found in selected actions, selecting fallback",
			Table:    p.table,
			Variable: gate.Variable,
		})
		return gate.Fallback
	}

	v, ok := p.Store.Get(gate.Variable)
	if !ok {
		p.warn(Diagnostic{
			Code:     CodeCheckTarget,
			Message:  "variable " + gate.Variable + " is not declared",
			Table:    p.table,
			Variable: gate.Variable,
		})
		return gate.Fallback
	}

	var passed bool
	switch v.Kind {
	case KindNumber:
		passed = p.checkNumber(gate, v.Number)
	case KindString:
		passed = p.checkString(gate, v.Text)
	default:
		p.warn(Diagnostic{
			Code:     CodeCheckKind,
			Message:  "cannot check a " + v.Kind.String() + " variable",
			Table:    p.table,
			Variable: gate.Variable,
		})
		return gate.Fallback
	}

	if passed {
		return gate.Primary
	}
	p.logger.Debug("condition failed, using fallback",
		"table", p.table, "variable", gate.Variable, "op", gate.Op)
	return gate.Fallback
}

// referencing finds the first primary action naming the gate's variable.
func (p *Pass) referencing(gate *ConditionGate) Action {
	if gate.Primary == nil {
		return nil
	}
	for _, a := range gate.Primary.Actions {
		if target(a) == gate.Variable {
			return a
		}
	}
	return nil
}

func (p *Pass) checkNumber(gate *ConditionGate, current int) bool {
	switch gate.Op {
	case OpLessOrEqual, "<=":
		match, err := strconv.Atoi(gate.Compare)
		if err != nil {
			p.warn(Diagnostic{
				Code:     CodeCheckValue,
				Message:  "compare value " + strconv.Quote(gate.Compare) + " is not a number",
				Table:    p.table,
				Variable: gate.Variable,
				Op:       gate.Op,
			})
			return false
		}
		return current+gate.Pending <= match
	case OpFormula:
		return p.checkFormula(gate, map[string]any{
			"current": int64(current),
			"pending": int64(gate.Pending),
		})
	}
	p.warn(Diagnostic{
		Code:     CodeCheckOp,
		Message:  "operation " + gate.Op + " not recognized",
		Table:    p.table,
		Variable: gate.Variable,
		Op:       gate.Op,
	})
	return false
}

// checkString follows the gate variable's value to the variable it names and
// compares that variable's value with the gate's compare value.
func (p *Pass) checkString(gate *ConditionGate, redirect string) bool {
	if gate.Op == OpFormula {
		return p.checkFormula(gate, map[string]any{"current": redirect})
	}
	ref, ok := p.Store.Get(redirect)
	if !ok || ref.Kind != KindString {
		p.warn(Diagnostic{
			Code:     CodeCheckTarget,
			Message:  "variable " + gate.Variable + " names " + strconv.Quote(redirect) + ", which is not a string variable",
			Table:    p.table,
			Variable: gate.Variable,
		})
		return false
	}
	return ref.Text == gate.Compare
}

func (p *Pass) checkFormula(gate *ConditionGate, ctx map[string]any) bool {
	if p.Formulas == nil {
		p.warn(Diagnostic{
			Code:     CodeCheckOp,
			Message:  "no formula evaluator configured",
			Table:    p.table,
			Variable: gate.Variable,
			Op:       gate.Op,
		})
		return false
	}
	ctx["vars"] = celVars(p.Store)
	ok, err := p.Formulas.EvalBool(gate.Compare, ctx)
	if err != nil {
		p.warn(Diagnostic{
			Code:     CodeCheckFailed,
			Message:  err.Error(),
			Table:    p.table,
			Variable: gate.Variable,
			Op:       gate.Op,
		})
		return false
	}
	return ok
}

// celVars converts the store map for formula evaluation; numbers become int64.
func celVars(s *Store) map[string]any {
	out := s.Map()
	for k, v := range out {
		if n, ok := v.(int); ok {
			out[k] = int64(n)
		}
	}
	return out
}
