package engine

// QueueEntry is a follow-up roll discovered while applying actions.
type QueueEntry struct {
	Table string
	Count int
}

// RollQueue holds follow-up rolls in discovery order.
type RollQueue struct {
	entries []QueueEntry
}

// Push appends an entry to the tail.
func (q *RollQueue) Push(e QueueEntry) {
	q.entries = append(q.entries, e)
}

// Pop removes and returns the oldest entry.
func (q *RollQueue) Pop() (QueueEntry, bool) {
	if len(q.entries) == 0 {
		return QueueEntry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// Len returns the number of queued entries.
func (q *RollQueue) Len() int { return len(q.entries) }

// Entries returns a copy of the queued entries, oldest first.
func (q *RollQueue) Entries() []QueueEntry {
	out := make([]QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *RollQueue) clear() { q.entries = nil }

// Apply runs the actions of list in order on behalf of table. AddTable actions
// naming table itself are not queued; their counts are summed and returned as
// the number of rerolls owed. Faulty actions are reported and skipped.
func (p *Pass) Apply(list *ActionList, table string, queue *RollQueue) int {
	if list == nil {
		return 0
	}

	rerolls := 0
	for _, action := range list.Actions {
		switch a := action.(type) {
		case *AddTable:
			count := a.Count
			if count <= 0 {
				count = 1
			}
			if a.Table == table {
				rerolls += count
				continue
			}
			queue.Push(QueueEntry{Table: a.Table, Count: count})
		case *Save:
			p.applySave(a)
		case *AddNum:
			p.applyAddNum(a)
		default:
			p.warn(Diagnostic{
				Code:     CodeUnknownAction,
				Message:  "loot type " + action.ActionName() + " not recognized",
				Table:    p.table,
				Variable: target(action),
			})
		}
	}
	return rerolls
}

func (p *Pass) applySave(a *Save) {
	v, ok := p.Store.Get(a.Variable)
	if !ok {
		p.warn(Diagnostic{
			Code:     CodeUnknownTarget,
			Message:  "cannot save " + a.Name + ": variable not declared",
			Table:    p.table,
			Variable: a.Variable,
		})
		return
	}

	switch v.Kind {
	case KindString:
		p.commit(&ValueSavedEvent{Variable: a.Variable, Value: a.Value})
	case KindList:
		p.commit(&ListAppendedEvent{Variable: a.Variable, Tag: a.Name, Value: a.Value})
	default:
		p.warn(Diagnostic{
			Code:     CodeSaveKind,
			Message:  "error saving " + a.Name + " to a " + v.Kind.String() + " variable",
			Table:    p.table,
			Variable: a.Variable,
		})
	}
}

func (p *Pass) applyAddNum(a *AddNum) {
	v, ok := p.Store.Get(a.Variable)
	if !ok {
		p.warn(Diagnostic{
			Code:     CodeUnknownTarget,
			Message:  "cannot add to " + a.Variable + ": variable not declared",
			Table:    p.table,
			Variable: a.Variable,
		})
		return
	}
	if v.Kind != KindNumber {
		p.warn(Diagnostic{
			Code:     CodeAddNumKind,
			Message:  "cannot add to a " + v.Kind.String() + " variable",
			Table:    p.table,
			Variable: a.Variable,
		})
		return
	}
	p.commit(&NumberAddedEvent{Variable: a.Variable, Amount: a.Amount})
}
