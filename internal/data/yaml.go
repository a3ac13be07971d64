package data

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/suderio/loot-table/internal/engine"
)

// Default action names. A list Save tags its element with the action name.
const (
	actionAddTable = "AddTable"
	actionSave     = "Save"
	actionAddNum   = "AddNum"
)

// ParseYAML decodes a loot table file into a tree.
func ParseYAML(raw []byte) (*Definition, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode loot table: %w", err)
	}

	tree := &engine.Tree{}
	for _, v := range doc.Variables {
		kind, err := engine.ParseKind(v.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		tree.Variables = append(tree.Variables, engine.VarDef{Name: v.Name, Kind: kind})
	}

	for _, t := range doc.Tables {
		root, err := convertNode(t.Node)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		tree.Tables = append(tree.Tables, engine.Table{Name: t.Name, Default: t.Default, Root: root})
	}

	for _, ix := range doc.Index {
		rule, err := convertIndex(ix)
		if err != nil {
			return nil, err
		}
		tree.Index = append(tree.Index, rule)
	}

	seeds, err := convertSeeds(&doc.Seeds)
	if err != nil {
		return nil, err
	}
	return &Definition{Name: doc.Name, Tree: tree, Seeds: seeds}, nil
}

func convertNode(n *nodeDoc) (engine.Node, error) {
	if n == nil {
		return nil, nil
	}

	set := 0
	for _, ok := range []bool{n.Categories != nil, n.Roll != nil, n.Check != nil, n.Actions != nil, n.Group != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("node %q declares more than one selector", n.Name)
	}

	switch {
	case n.Categories != nil:
		return convertCategories(n.Categories)
	case n.Roll != nil:
		return convertRoll(n.Roll)
	case n.Check != nil:
		return convertCheck(n.Name, n.Check)
	case n.Actions != nil:
		return convertActions(n.Name, n.Actions)
	case n.Group != nil:
		child, err := convertNode(n.Group)
		if err != nil {
			return nil, err
		}
		return &engine.Group{Name: n.Name, Child: child}, nil
	}
	return engine.Empty{}, nil
}

func convertCategories(c *categoriesDoc) (engine.Node, error) {
	sel := &engine.CategorySelector{Variable: c.Var}
	if c.Branches.Kind == 0 {
		return sel, nil
	}
	if c.Branches.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: categories on %s: branches must be a mapping", c.Branches.Line, c.Var)
	}

	content := c.Branches.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i], content[i+1]
		var nd nodeDoc
		if err := val.Decode(&nd); err != nil {
			return nil, fmt.Errorf("line %d: category %s: %w", val.Line, key.Value, err)
		}
		target, err := convertNode(&nd)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", key.Value, err)
		}
		sel.Branches = append(sel.Branches, engine.Branch{Key: key.Value, Target: target})
	}
	return sel, nil
}

func convertRoll(r *rollDoc) (engine.Node, error) {
	sel := &engine.RollSelector{Kind: engine.RollKind(r.Type)}
	for i := range r.Bands {
		target, err := convertNode(&r.Bands[i].nodeDoc)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", r.Bands[i].Max, err)
		}
		sel.Bands = append(sel.Bands, engine.Band{Max: r.Bands[i].Max, Target: target})
	}
	return sel, nil
}

func convertCheck(name string, c *checkDoc) (engine.Node, error) {
	primary, err := convertActions(name, c.Actions)
	if err != nil {
		return nil, err
	}
	gate := &engine.ConditionGate{
		Variable: c.Var,
		Op:       c.Op,
		Compare:  c.Match,
		Primary:  primary,
	}
	if c.Default != nil {
		if gate.Fallback, err = convertActions("Default", c.Default); err != nil {
			return nil, err
		}
	}

	if c.Amt != nil {
		gate.Pending = *c.Amt
	} else {
		gate.Pending = pendingAmount(primary, c.Var)
	}
	return gate, nil
}

// pendingAmount is the amount the first AddNum on variable would add.
func pendingAmount(list *engine.ActionList, variable string) int {
	for _, a := range list.Actions {
		if add, ok := a.(*engine.AddNum); ok && add.Variable == variable {
			return add.Amount
		}
	}
	return 0
}

func convertActions(name string, nodes []yaml.Node) (*engine.ActionList, error) {
	list := &engine.ActionList{Name: name, Actions: make([]engine.Action, 0, len(nodes))}
	for i := range nodes {
		a, err := convertAction(&nodes[i])
		if err != nil {
			return nil, err
		}
		list.Actions = append(list.Actions, a)
	}
	return list, nil
}

// convertAction decodes a single-key mapping such as
//
//	add_table: Properties
//	save: {var: Quality, value: Fine}
//	add_num: {var: Price, amt: 20}
func convertAction(n *yaml.Node) (engine.Action, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, fmt.Errorf("line %d: an action must be a mapping with a single key", n.Line)
	}
	key, body := n.Content[0].Value, n.Content[1]

	var doc actionDoc
	if body.Kind == yaml.ScalarNode {
		doc.Table = body.Value
		doc.Var = body.Value
	} else if err := body.Decode(&doc); err != nil {
		return nil, fmt.Errorf("line %d: %s: %w", body.Line, key, err)
	}

	amount := 0
	if doc.Amt != nil {
		amount = *doc.Amt
	}

	switch key {
	case "add_table":
		if doc.Table == "" {
			doc.Table = doc.Var
		}
		if doc.Amt == nil {
			amount = 1
		}
		return &engine.AddTable{Name: nameOr(doc.Name, actionAddTable), Table: doc.Table, Count: amount}, nil
	case "save":
		return &engine.Save{Name: nameOr(doc.Name, actionSave), Variable: doc.Var, Value: doc.Value}, nil
	case "add_num":
		return &engine.AddNum{Name: nameOr(doc.Name, actionAddNum), Variable: doc.Var, Amount: amount}, nil
	}
	return &engine.UnknownAction{Name: key, Variable: doc.Var}, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func convertIndex(ix indexDoc) (engine.IndexRule, error) {
	kind := engine.KindNumber
	if ix.Type != "" {
		k, err := engine.ParseKind(ix.Type)
		if err != nil {
			return engine.IndexRule{}, fmt.Errorf("index %s: %w", ix.Var, err)
		}
		kind = k
	}
	rule := engine.IndexRule{Variable: ix.Var, Kind: kind}
	for _, b := range ix.Buckets {
		rule.Buckets = append(rule.Buckets, engine.Bucket{Index: b.Index, Variable: b.Var, Amount: b.Amt})
	}
	return rule, nil
}

func convertSeeds(n *yaml.Node) ([]engine.Seed, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: seeds must be a mapping", n.Line)
	}
	var seeds []engine.Seed
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("seed %s: %w", n.Content[i].Value, err)
		}
		seeds = append(seeds, engine.Seed{Name: n.Content[i].Value, Value: v})
	}
	return seeds, nil
}
