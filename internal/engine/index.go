package engine

// Translate runs the index rules once over the store. Only number rules are
// applied; a value without a matching bucket is left unadjusted.
func (p *Pass) Translate(rules []IndexRule) {
	for _, rule := range rules {
		if rule.Kind != KindNumber {
			continue
		}
		src, ok := p.Store.Get(rule.Variable)
		if !ok || src.Kind != KindNumber {
			continue
		}
		for _, b := range rule.Buckets {
			if b.Index != src.Number {
				continue
			}
			dst, ok := p.Store.Get(b.Variable)
			if !ok || dst.Kind != KindNumber {
				p.warn(Diagnostic{
					Code:     CodeAddNumKind,
					Message:  "index target is not a number variable",
					Variable: b.Variable,
				})
				break
			}
			p.commit(&IndexAppliedEvent{
				Source:   rule.Variable,
				Index:    b.Index,
				Variable: b.Variable,
				Amount:   b.Amount,
			})
			break
		}
	}
}
