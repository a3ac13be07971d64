package data

import (
	"gopkg.in/yaml.v3"

	"github.com/suderio/loot-table/internal/engine"
)

// Definition is a loaded loot table file.
type Definition struct {
	Name  string
	Tree  *engine.Tree
	Seeds []engine.Seed
}

// document is the YAML layout of a loot table file.
type document struct {
	Name      string     `yaml:"name"`
	Variables []variable `yaml:"variables"`
	Seeds     yaml.Node  `yaml:"seeds"`
	Tables    []tableDoc `yaml:"tables"`
	Index     []indexDoc `yaml:"index"`
}

type variable struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type tableDoc struct {
	Name    string   `yaml:"name"`
	Default bool     `yaml:"default"`
	Node    *nodeDoc `yaml:"node"`
}

// nodeDoc holds exactly one of its selector or terminal fields.
type nodeDoc struct {
	Name       string         `yaml:"name"`
	Categories *categoriesDoc `yaml:"categories"`
	Roll       *rollDoc       `yaml:"roll"`
	Check      *checkDoc      `yaml:"check"`
	Actions    []yaml.Node    `yaml:"actions"`
	Group      *nodeDoc       `yaml:"group"`
}

type categoriesDoc struct {
	Var string `yaml:"var"`
	// Branches is an ordered mapping of category key to node.
	Branches yaml.Node `yaml:"branches"`
}

type rollDoc struct {
	Type  string    `yaml:"type"`
	Bands []bandDoc `yaml:"bands"`
}

type bandDoc struct {
	Max     int `yaml:"max"`
	nodeDoc `yaml:",inline"`
}

type checkDoc struct {
	Var     string      `yaml:"var"`
	Op      string      `yaml:"op"`
	Match   string      `yaml:"match"`
	Amt     *int        `yaml:"amt"`
	Actions []yaml.Node `yaml:"actions"`
	Default []yaml.Node `yaml:"default"`
}

// actionDoc is the long form of an action's body. The short form is a scalar
// naming the table or variable.
type actionDoc struct {
	Name  string `yaml:"name"`
	Table string `yaml:"table"`
	Var   string `yaml:"var"`
	Value string `yaml:"value"`
	Amt   *int   `yaml:"amt"`
}

type indexDoc struct {
	Var     string      `yaml:"var"`
	Type    string      `yaml:"type"`
	Buckets []bucketDoc `yaml:"buckets"`
}

type bucketDoc struct {
	Index int    `yaml:"index"`
	Var   string `yaml:"var"`
	Amt   int    `yaml:"amt"`
}
