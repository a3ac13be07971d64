// Package engine evaluates loot table definition trees into magic items.
//
// A Generator owns a variable store, a randomness source and a roll queue.
// Each pass rolls the default tables, drains the follow-up queue in discovery
// order and finally applies the index rules. Every store mutation is recorded
// as an Event so a pass can be persisted and replayed.
package engine

import (
	"fmt"
	"io"
	"log/slog"
)

// State is a step of the generation state machine.
type State int

const (
	StateIdle State = iota
	StateRollingDefaults
	StateDrainingQueue
	StateTranslating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRollingDefaults:
		return "rolling-defaults"
	case StateDrainingQueue:
		return "draining-queue"
	case StateTranslating:
		return "translating"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// DefaultMaxRolls bounds the number of table rolls in one pass.
const DefaultMaxRolls = 1000

// Pass carries the collaborators of one generation pass and collects its
// warnings and events.
type Pass struct {
	Store    *Store
	Rand     RandomSource
	Formulas FormulaEvaluator

	logger   *slog.Logger
	table    string
	warnings []Diagnostic
	events   []Event
}

// NewPass creates a pass over store. A nil logger discards output.
func NewPass(store *Store, rng RandomSource, logger *slog.Logger) *Pass {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if rng == nil {
		rng = CryptoSource{Logger: logger}
	}
	return &Pass{Store: store, Rand: rng, logger: logger}
}

// Warnings returns the diagnostics recovered during the pass.
func (p *Pass) Warnings() []Diagnostic {
	out := make([]Diagnostic, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// Events returns the events recorded during the pass.
func (p *Pass) Events() []Event {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *Pass) warn(d Diagnostic) {
	if d.Table == "" {
		d.Table = p.table
	}
	p.warnings = append(p.warnings, d)
	p.logger.Warn(d.Message,
		"code", d.Code, "table", d.Table, "variable", d.Variable, "op", d.Op)
}

func (p *Pass) record(evt Event) {
	p.events = append(p.events, evt)
}

// commit applies evt to the store and records it. Events are only created
// after their target was checked, so a failure here is a programming error
// and is reported as a warning.
func (p *Pass) commit(evt Event) {
	if err := evt.Apply(p.Store); err != nil {
		p.warn(Diagnostic{Code: CodeUnknownTarget, Message: err.Error()})
		return
	}
	p.record(evt)
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandom replaces the default crypto/rand source.
func WithRandom(rng RandomSource) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithMaxRolls sets the per-pass roll cap. Values below one are ignored.
func WithMaxRolls(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxRolls = n
		}
	}
}

// WithFormulas enables the "expr" gate operator.
func WithFormulas(f FormulaEvaluator) Option {
	return func(g *Generator) { g.formulas = f }
}

// Generator runs generation passes over a tree. It is not safe for
// concurrent use.
type Generator struct {
	tree     *Tree
	store    *Store
	rng      RandomSource
	formulas FormulaEvaluator
	logger   *slog.Logger
	maxRolls int

	queue RollQueue
	state State
	rolls int
	pass  *Pass
}

// NewGenerator validates tree and returns a Generator in the Idle state.
func NewGenerator(tree *Tree, opts ...Option) (*Generator, error) {
	if diags := tree.Validate(); len(diags) > 0 {
		return nil, &Fault{Diagnostics: diags}
	}

	g := &Generator{
		tree:     tree,
		store:    NewStore(tree.Variables),
		rng:      CryptoSource{},
		maxRolls: DefaultMaxRolls,
	}
	for _, opt := range opts {
		opt(g)
	}
	if src, ok := g.rng.(CryptoSource); ok && src.Logger == nil {
		src.Logger = g.logger
		g.rng = src
	}
	g.Reset()
	return g, nil
}

// Tree returns the definition the generator evaluates.
func (g *Generator) Tree() *Tree { return g.tree }

// State returns the current state of the generation state machine.
func (g *Generator) State() State { return g.state }

// Reset clears every variable to its kind default, empties the queue and
// returns to Idle. Calling it twice is the same as calling it once.
func (g *Generator) Reset() {
	g.pass = NewPass(g.store, g.rng, g.logger)
	g.pass.Formulas = g.formulas
	g.pass.commit(&ResetEvent{})
	g.queue.clear()
	g.rolls = 0
	g.state = StateIdle
}

// SetVariable seeds an input variable. It fails with ErrUnknownVariable or
// ErrTypeMismatch.
func (g *Generator) SetVariable(name string, value any) error {
	evt := &VariableSetEvent{Variable: name, Value: value}
	if err := evt.Apply(g.store); err != nil {
		return err
	}
	g.pass.record(evt)
	return nil
}

// RollDefault runs a full pass: default tables, queue drain and index
// translation. It returns a *Fault for configuration faults; in that case the
// store holds the partial result until the next Reset.
func (g *Generator) RollDefault() error {
	if g.state != StateIdle {
		return ErrNotIdle
	}

	g.state = StateRollingDefaults
	for _, table := range g.tree.Defaults() {
		if err := g.RollTable(table.Name, 1); err != nil {
			return err
		}
	}

	g.state = StateDrainingQueue
	for {
		entry, ok := g.queue.Pop()
		if !ok {
			break
		}
		if err := g.RollTable(entry.Table, entry.Count); err != nil {
			return err
		}
	}

	g.state = StateTranslating
	g.pass.table = ""
	g.pass.Translate(g.tree.Index)

	g.state = StateDone
	return nil
}

// RollTable rolls count times on the named table. Each roll that asks for
// rerolls of the same table owes that many extra rolls before returning.
func (g *Generator) RollTable(name string, count int) error {
	table, ok := g.tree.Table(name)
	if !ok {
		return fault(Diagnostic{
			Code:    CodeUnknownTable,
			Message: "table " + name + " is not defined",
			Table:   name,
		})
	}

	for owed := count; owed > 0; owed-- {
		if g.rolls >= g.maxRolls {
			return fault(Diagnostic{
				Code:    CodeRerollCap,
				Message: "reroll cap exceeded, the tree probably loops",
				Table:   name,
			})
		}
		g.rolls++

		rerolls, err := g.rollOnce(table)
		if err != nil {
			return err
		}
		owed += rerolls
	}
	return nil
}

func (g *Generator) rollOnce(table *Table) (int, error) {
	p := g.pass
	p.table = table.Name
	p.record(&TableRolledEvent{Table: table.Name})

	selected, err := p.Resolve(table.Root)
	if err != nil {
		return 0, err
	}

	list := terminal(p, selected)
	return p.Apply(list, table.Name, &g.queue), nil
}

// terminal turns a resolved node into the action list to apply, running the
// condition gate when the node wraps one.
func terminal(p *Pass, n Node) *ActionList {
	switch node := n.(type) {
	case *ActionList:
		return node
	case *ConditionGate:
		return p.Check(node)
	case *Group:
		return terminal(p, node.Child)
	case Empty, nil:
		return nil
	}
	p.warn(Diagnostic{
		Code:    CodeNotTerminal,
		Message: fmt.Sprintf("resolved to %T, which holds no actions", n),
	})
	return nil
}

// ExportState returns a snapshot of every variable in declaration order.
func (g *Generator) ExportState() []Snapshot {
	return g.store.Snapshot()
}

// ExportMap returns the current values keyed by variable name.
func (g *Generator) ExportMap() map[string]any {
	return g.store.Map()
}

// Warnings returns the diagnostics recovered since the last Reset.
func (g *Generator) Warnings() []Diagnostic {
	return g.pass.Warnings()
}

// Events returns the events recorded since the last Reset, starting with the
// reset itself.
func (g *Generator) Events() []Event {
	return g.pass.Events()
}

// Rolls returns the number of table rolls made since the last Reset.
func (g *Generator) Rolls() int { return g.rolls }
