package engine

// --- Tree model ---

// Node is one element of a loot table definition tree. The set of
// implementations is closed: CategorySelector, RollSelector, ConditionGate,
// ActionList, Group and Empty.
type Node interface {
	node()
}

// CategorySelector picks the branch keyed by the current value of a string variable.
type CategorySelector struct {
	Variable string
	Branches []Branch
}

// Branch is one keyed child of a CategorySelector. Branches keep document order.
type Branch struct {
	Key    string
	Target Node
}

// RollKind names the dice used by a RollSelector.
type RollKind string

// RollPercentile draws from 1 to 100 inclusive.
const RollPercentile RollKind = "percentile"

// RollSelector draws a number and picks the first band whose Max covers it.
type RollSelector struct {
	Kind  RollKind
	Bands []Band
}

// Band associates an inclusive upper threshold with a subtree.
type Band struct {
	Max    int
	Target Node
}

// Comparison operators understood by ConditionGate.
const (
	OpLessOrEqual = "lte"
	OpFormula     = "expr"
)

// ConditionGate validates a pending change before it is committed. When the
// check passes Primary is applied, otherwise Fallback.
type ConditionGate struct {
	Variable string
	Op       string
	Compare  string
	Pending  int
	Primary  *ActionList
	Fallback *ActionList
}

// ActionList is a terminal node holding actions applied in order.
type ActionList struct {
	Name    string
	Actions []Action
}

// Group is a named wrapper around a single child, used for grouping.
type Group struct {
	Name  string
	Child Node
}

// Empty is returned by the resolver when nothing could be selected.
type Empty struct{}

func (*CategorySelector) node() {}
func (*RollSelector) node()     {}
func (*ConditionGate) node()    {}
func (*ActionList) node()       {}
func (*Group) node()            {}
func (Empty) node()             {}

// --- Actions ---

// Action is one terminal instruction. Implementations: AddTable, Save,
// AddNum and UnknownAction.
type Action interface {
	ActionName() string
}

// AddTable schedules Count further rolls on Table. A table naming itself rerolls.
type AddTable struct {
	Name  string
	Table string
	Count int
}

// Save overwrites a string variable or appends to a list variable.
type Save struct {
	Name     string
	Variable string
	Value    string
}

// AddNum adds Amount to a number variable.
type AddNum struct {
	Name     string
	Variable string
	Amount   int
}

// UnknownAction keeps an action the loader could not recognise. It is never
// executed; the executor reports it and moves on.
type UnknownAction struct {
	Name     string
	Variable string
}

func (a *AddTable) ActionName() string      { return a.Name }
func (a *Save) ActionName() string          { return a.Name }
func (a *AddNum) ActionName() string        { return a.Name }
func (a *UnknownAction) ActionName() string { return a.Name }

// target returns the variable an action refers to by name.
func target(a Action) string {
	switch act := a.(type) {
	case *AddTable:
		return act.Table
	case *Save:
		return act.Variable
	case *AddNum:
		return act.Variable
	case *UnknownAction:
		return act.Variable
	}
	return ""
}

// --- Index rules ---

// IndexRule translates the value of a number variable into adjustments.
type IndexRule struct {
	Variable string
	Kind     Kind
	Buckets  []Bucket
}

// Bucket adds Amount to Variable when the rule's source equals Index.
type Bucket struct {
	Index    int
	Variable string
	Amount   int
}

// --- Tree ---

// Table is a top-level entry point of the tree.
type Table struct {
	Name    string
	Default bool
	Root    Node
}

// Tree is the full, immutable definition supplied to a Generator.
type Tree struct {
	Variables []VarDef
	Tables    []Table
	Index     []IndexRule
}

// Table looks up a top-level table by name.
func (t *Tree) Table(name string) (*Table, bool) {
	for i := range t.Tables {
		if t.Tables[i].Name == name {
			return &t.Tables[i], true
		}
	}
	return nil, false
}

// Defaults returns the tables flagged default, in declaration order.
func (t *Tree) Defaults() []*Table {
	var out []*Table
	for i := range t.Tables {
		if t.Tables[i].Default {
			out = append(out, &t.Tables[i])
		}
	}
	return out
}

// Validate walks every table and reports configuration faults: gates
// without a fallback, unknown roll kinds and AddTable targets that are not
// top-level tables.
func (t *Tree) Validate() []Diagnostic {
	var diags []Diagnostic
	for _, table := range t.Tables {
		diags = append(diags, t.validateNode(table.Name, table.Root)...)
	}
	return diags
}

func (t *Tree) validateNode(table string, n Node) []Diagnostic {
	var diags []Diagnostic
	switch node := n.(type) {
	case *CategorySelector:
		for _, b := range node.Branches {
			diags = append(diags, t.validateNode(table, b.Target)...)
		}
	case *RollSelector:
		if node.Kind != RollPercentile {
			diags = append(diags, Diagnostic{
				Code:    CodeRollKind,
				Message: "roll kind " + string(node.Kind) + " not recognized",
				Table:   table,
			})
		}
		for _, b := range node.Bands {
			diags = append(diags, t.validateNode(table, b.Target)...)
		}
	case *ConditionGate:
		if node.Fallback == nil {
			diags = append(diags, Diagnostic{
				Code:     CodeMissingFallback,
				Message:  "condition on " + node.Variable + " has no fallback",
				Table:    table,
				Variable: node.Variable,
			})
		}
		diags = append(diags, t.validateNode(table, node.Primary)...)
		if node.Fallback != nil {
			diags = append(diags, t.validateNode(table, node.Fallback)...)
		}
	case *ActionList:
		if node == nil {
			return nil
		}
		for _, a := range node.Actions {
			add, ok := a.(*AddTable)
			if !ok {
				continue
			}
			if _, found := t.Table(add.Table); !found {
				diags = append(diags, Diagnostic{
					Code:    CodeUnknownTable,
					Message: "table " + add.Table + " is not defined",
					Table:   table,
				})
			}
		}
	case *Group:
		diags = append(diags, t.validateNode(table, node.Child)...)
	case nil:
		diags = append(diags, Diagnostic{
			Code:    CodeEmptyTable,
			Message: "table has no content",
			Table:   table,
		})
	}
	return diags
}
