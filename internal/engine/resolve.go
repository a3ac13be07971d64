package engine

// Resolve descends from node to a terminal node. It returns Empty when a
// category or roll finds nothing to select, and an error only for
// configuration faults (unknown roll kind).
func (p *Pass) Resolve(node Node) (Node, error) {
	switch n := node.(type) {
	case *CategorySelector:
		return p.resolveCategory(n)
	case *RollSelector:
		return p.resolveRoll(n)
	case *Group:
		if isSelector(n.Child) || isGroup(n.Child) {
			return p.Resolve(n.Child)
		}
		return n, nil
	case nil:
		return Empty{}, nil
	default:
		return n, nil
	}
}

func (p *Pass) resolveCategory(n *CategorySelector) (Node, error) {
	v, ok := p.Store.Get(n.Variable)
	if !ok || v.Kind != KindString {
		p.warn(Diagnostic{
			Code:     CodeCategoryKind,
			Message:  "category variable " + n.Variable + " is not a declared string",
			Table:    p.table,
			Variable: n.Variable,
		})
		return Empty{}, nil
	}

	for _, b := range n.Branches {
		if b.Key != v.Text {
			continue
		}
		// Groups are resolved too so a wrapped selector is still descended.
		if isSelector(b.Target) || isGroup(b.Target) {
			return p.Resolve(b.Target)
		}
		if b.Target == nil {
			return Empty{}, nil
		}
		return b.Target, nil
	}

	p.warn(Diagnostic{
		Code:     CodeNoCategory,
		Message:  "no category match for " + n.Variable,
		Table:    p.table,
		Variable: n.Variable,
	})
	return Empty{}, nil
}

func (p *Pass) resolveRoll(n *RollSelector) (Node, error) {
	drawn, ok := rollDie(p.Rand, n.Kind)
	if !ok {
		return Empty{}, fault(Diagnostic{
			Code:    CodeRollKind,
			Message: "roll kind " + string(n.Kind) + " not recognized",
			Table:   p.table,
		})
	}
	p.record(&DiceRolledEvent{Kind: string(n.Kind), Result: drawn})

	// Bands are scanned in document order; they need not be sorted.
	for _, b := range n.Bands {
		if b.Max >= drawn {
			return p.Resolve(b.Target)
		}
	}

	p.warn(Diagnostic{
		Code:    CodeNoBand,
		Message: "roll produced no result",
		Table:   p.table,
	})
	return Empty{}, nil
}

func isGroup(n Node) bool {
	_, ok := n.(*Group)
	return ok
}

func isSelector(n Node) bool {
	switch n.(type) {
	case *CategorySelector, *RollSelector:
		return true
	}
	return false
}
