package engine

// Projector rebuilds an item's variables from a recorded event sequence.
type Projector struct {
	defs []VarDef
}

// NewProjector creates a projector for stores declaring defs.
func NewProjector(defs []VarDef) *Projector {
	return &Projector{defs: defs}
}

// Build folds the events over a fresh store.
func (p *Projector) Build(events []Event) (*Store, error) {
	store := NewStore(p.defs)

	for _, evt := range events {
		if err := evt.Apply(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}
