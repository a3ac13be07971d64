package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// RollFunc draws a number between 1 and sides inclusive.
type RollFunc func(sides int) int

// Registry manages the CEL environment used by formula gates.
//
// Formulas see three variables:
//
//	vars     map of every item variable (numbers are int, lists are lists of strings)
//	current  the gate variable's value (or, for strings, the name it redirects to)
//	pending  the amount the gate's action would add
//
// and a roll(sides) function backed by the generator's random source.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment. A nil rollFunc makes roll()
// always return 1.
func NewRegistry(rollFunc RollFunc) (*Registry, error) {
	if rollFunc == nil {
		rollFunc = func(int) int { return 1 }
	}

	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),

		cel.Variable("vars", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("current", cel.DynType),
		cel.Variable("pending", cel.IntType),

		cel.Function("roll",
			cel.Overload("roll_int",
				[]*cel.Type{cel.IntType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					sides, ok := arg.Value().(int64)
					if !ok || sides < 1 {
						return types.NewErr("roll: sides must be a positive integer")
					}
					return types.Int(rollFunc(int(sides)))
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env}, nil
}

// Compile type-checks expression without running it.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	ast, iss := r.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", iss.Err())
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return prog, nil
}

// Eval executes a CEL expression against the provided context.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	prog, err := r.Compile(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, fmt.Errorf("CEL eval error: %w", err)
	}
	return convertRefVal(out), nil
}

// EvalBool evaluates a gate formula; it is an error for the result not to be a bool.
func (r *Registry) EvalBool(expression string, context map[string]any) (bool, error) {
	out, err := r.Eval(expression, context)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("formula %q returned %T, want bool", expression, out)
	}
	return b, nil
}

// convertRefVal converts a CEL value to a native Go value, recursing into maps
// and lists.
func convertRefVal(val ref.Val) any {
	native := val.Value()
	switch v := native.(type) {
	case map[ref.Val]ref.Val:
		result := make(map[string]any, len(v))
		for mk, mv := range v {
			result[fmt.Sprintf("%v", mk.Value())] = convertRefVal(mv)
		}
		return result
	case []ref.Val:
		result := make([]any, len(v))
		for i, rv := range v {
			result[i] = convertRefVal(rv)
		}
		return result
	default:
		return native
	}
}
