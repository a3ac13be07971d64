package data

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/suderio/loot-table/internal/engine"
)

// xmlNode is a generic element of the XML table format, where element names
// carry meaning (variable names, category keys, action kinds).
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) name() string { return n.XMLName.Local }

func (n *xmlNode) text() string { return strings.TrimSpace(n.Text) }

func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *xmlNode) intAttr(name string, fallback int) (int, error) {
	raw := n.attr(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("attribute %s on <%s>: %w", name, n.name(), err)
	}
	return v, nil
}

func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].name() == name {
			return &n.Children[i]
		}
	}
	return nil
}

// ParseXML decodes a table in the XML layout:
//
//	<Loot>
//	  <ItemVars><Price type="number"/></ItemVars>
//	  <Table><Base default="true">...</Base></Table>
//	  <IndexTable><Plus type="number" tableVar="PlusLevel">...</Plus></IndexTable>
//	</Loot>
func ParseXML(raw []byte) (*Definition, error) {
	var root xmlNode
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to decode loot table: %w", err)
	}

	tree := &engine.Tree{}
	if vars := root.child("ItemVars"); vars != nil {
		for _, v := range vars.Children {
			kind, err := engine.ParseKind(v.attr("type"))
			if err != nil {
				return nil, fmt.Errorf("variable %s: %w", v.name(), err)
			}
			tree.Variables = append(tree.Variables, engine.VarDef{Name: v.name(), Kind: kind})
		}
	}

	if tables := root.child("Table"); tables != nil {
		for i := range tables.Children {
			t := &tables.Children[i]
			table := engine.Table{Name: t.name(), Default: t.attr("default") == "true"}
			if len(t.Children) > 0 {
				node, err := xmlSelect(&t.Children[0])
				if err != nil {
					return nil, fmt.Errorf("table %s: %w", t.name(), err)
				}
				table.Root = node
			}
			tree.Tables = append(tree.Tables, table)
		}
	}

	if index := root.child("IndexTable"); index != nil {
		for i := range index.Children {
			rule, err := xmlIndex(&index.Children[i])
			if err != nil {
				return nil, err
			}
			tree.Index = append(tree.Index, rule)
		}
	}

	return &Definition{Name: root.name(), Tree: tree}, nil
}

func xmlSelect(n *xmlNode) (engine.Node, error) {
	switch n.name() {
	case "Categories":
		sel := &engine.CategorySelector{Variable: n.attr("varName")}
		for i := range n.Children {
			target, err := xmlContainer(&n.Children[i])
			if err != nil {
				return nil, err
			}
			sel.Branches = append(sel.Branches, engine.Branch{Key: n.Children[i].name(), Target: target})
		}
		return sel, nil
	case "Roll":
		sel := &engine.RollSelector{Kind: engine.RollKind(n.attr("type"))}
		for i := range n.Children {
			band := &n.Children[i]
			limit, err := band.intAttr("maxRoll", 0)
			if err != nil {
				return nil, err
			}
			target, err := xmlContainer(band)
			if err != nil {
				return nil, err
			}
			sel.Bands = append(sel.Bands, engine.Band{Max: limit, Target: target})
		}
		return sel, nil
	}
	return xmlContainer(n)
}

// xmlContainer converts an element holding either a nested selector, a
// condition or loot actions.
func xmlContainer(n *xmlNode) (engine.Node, error) {
	if len(n.Children) == 0 {
		return engine.Empty{}, nil
	}
	first := &n.Children[0]
	switch first.name() {
	case "Categories", "Roll":
		child, err := xmlSelect(first)
		if err != nil {
			return nil, err
		}
		return &engine.Group{Name: n.name(), Child: child}, nil
	case "ItemVarCheck":
		return xmlCheck(n.name(), first)
	}
	return xmlActions(n.name(), n.Children)
}

func xmlCheck(name string, n *xmlNode) (engine.Node, error) {
	gate := &engine.ConditionGate{
		Variable: n.attr("toCheck"),
		Op:       n.attr("op"),
		Compare:  n.attr("toMatch"),
	}

	var (
		loot  []xmlNode
		found bool
	)
	for i := range n.Children {
		c := &n.Children[i]
		if c.name() == "Default" {
			fallback, err := xmlActions("Default", c.Children)
			if err != nil {
				return nil, err
			}
			gate.Fallback = fallback
			continue
		}
		// The first action naming the variable sets the pending amount.
		if !found && c.text() == gate.Variable {
			amt, err := c.intAttr("amt", 0)
			if err != nil {
				return nil, err
			}
			gate.Pending = amt
			found = true
		}
		loot = append(loot, *c)
	}

	primary, err := xmlActions(name, loot)
	if err != nil {
		return nil, err
	}
	gate.Primary = primary
	return gate, nil
}

func xmlActions(name string, nodes []xmlNode) (*engine.ActionList, error) {
	list := &engine.ActionList{Name: name, Actions: make([]engine.Action, 0, len(nodes))}
	for i := range nodes {
		n := &nodes[i]
		switch n.name() {
		case actionAddTable:
			count, err := n.intAttr("amt", 1)
			if err != nil {
				return nil, err
			}
			list.Actions = append(list.Actions, &engine.AddTable{Name: actionAddTable, Table: n.text(), Count: count})
		case actionSave:
			list.Actions = append(list.Actions, &engine.Save{Name: actionSave, Variable: n.text(), Value: n.attr("toSave")})
		case actionAddNum:
			amt, err := n.intAttr("amt", 0)
			if err != nil {
				return nil, err
			}
			list.Actions = append(list.Actions, &engine.AddNum{Name: actionAddNum, Variable: n.text(), Amount: amt})
		default:
			list.Actions = append(list.Actions, &engine.UnknownAction{Name: n.name(), Variable: n.text()})
		}
	}
	return list, nil
}

func xmlIndex(n *xmlNode) (engine.IndexRule, error) {
	kind, err := engine.ParseKind(n.attr("type"))
	if err != nil {
		return engine.IndexRule{}, fmt.Errorf("index %s: %w", n.name(), err)
	}
	rule := engine.IndexRule{Variable: n.attr("tableVar"), Kind: kind}
	for i := range n.Children {
		b := &n.Children[i]
		index, err := b.intAttr("index", 0)
		if err != nil {
			return engine.IndexRule{}, err
		}
		amt, err := b.intAttr("amt", 0)
		if err != nil {
			return engine.IndexRule{}, err
		}
		rule.Buckets = append(rule.Buckets, engine.Bucket{Index: index, Variable: b.text(), Amount: amt})
	}
	return rule, nil
}
