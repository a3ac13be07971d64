package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/loot-table/internal/engine"
)

func roll(t *testing.T, def *Definition, rolls ...int) map[string]any {
	t.Helper()
	g, err := engine.NewGenerator(def.Tree, engine.WithRandom(engine.NewSequence(rolls...)))
	require.NoError(t, err)
	for _, s := range def.Seeds {
		require.NoError(t, g.SetVariable(s.Name, s.Value))
	}
	require.NoError(t, g.RollDefault())
	return g.ExportMap()
}

func TestLoaderEmbeddedFallback(t *testing.T) {
	l := NewLoader(nil)

	def, err := l.Load("Weapons")
	require.NoError(t, err)

	assert.Equal(t, "weapons", def.Name)
	assert.Len(t, def.Tree.Variables, 7)
	require.Len(t, def.Tree.Tables, 3)
	assert.Equal(t, []engine.Seed{
		{Name: "Item_Category", Value: "Medium"},
		{Name: "Roll_Type", Value: "Treasure"},
	}, def.Seeds)

	root, ok := def.Tree.Tables[0].Root.(*engine.CategorySelector)
	require.True(t, ok)
	var keys []string
	for _, b := range root.Branches {
		keys = append(keys, b.Key)
	}
	assert.Equal(t, []string{"Minor", "Medium", "Major"}, keys)
	assert.Empty(t, def.Tree.Validate())
	assert.Contains(t, Bundled(), "weapons")
}

func TestLoaderDirectoryOverridesBundled(t *testing.T) {
	dir := t.TempDir()
	custom := []byte(`
variables:
  - {name: Weapon, type: string}
tables:
  - name: Only
    default: true
    node:
      actions:
        - save: {var: Weapon, value: Spoon}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weapons.yml"), custom, 0o644))

	def, err := NewLoader([]string{filepath.Join(dir, "missing"), dir}).Load("weapons")
	require.NoError(t, err)
	assert.Equal(t, "weapons", def.Name)
	assert.Equal(t, "Spoon", roll(t, def)["Weapon"])

	def, err = NewLoader(nil).Load(filepath.Join(dir, "weapons.yml"))
	require.NoError(t, err)
	require.Len(t, def.Tree.Tables, 1)

	_, err = NewLoader([]string{dir}).Load("armor")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBundledWeaponsRolls(t *testing.T) {
	def, err := NewLoader(nil).Load("weapons")
	require.NoError(t, err)

	t.Run("plain band", func(t *testing.T) {
		item := roll(t, def, 30)
		assert.Equal(t, "Longsword", item["Weapon"])
		assert.Equal(t, 15, item["Price"])
	})

	t.Run("follow-up property", func(t *testing.T) {
		item := roll(t, def, 65, 10)
		assert.Equal(t, "Battleaxe", item["Weapon"])
		assert.Equal(t, []string{"Keen"}, item["Properties"])
	})

	t.Run("gilding passes the price check", func(t *testing.T) {
		item := roll(t, def, 85, 95)
		assert.Equal(t, "Rapier", item["Weapon"])
		assert.Equal(t, "Gilded", item["Quality"])
		assert.Equal(t, 45, item["Price"])
	})

	t.Run("index translation", func(t *testing.T) {
		item := roll(t, def, 85, 30)
		assert.Equal(t, 1, item["PlusLevel"])
		assert.Equal(t, 2025, item["Price"])
	})
}

func TestParseYAML(t *testing.T) {
	def, err := ParseYAML([]byte(`
variables:
  - {name: Price, type: number}
  - {name: Tags, type: list}
tables:
  - name: Base
    default: true
    node:
      group:
        check:
          var: Price
          op: lte
          match: "100"
          actions:
            - add_num: {var: Price, amt: 20}
            - add_table: Extra
            - engrave: {var: Tags}
          default: []
  - name: Extra
    node:
      check:
        var: Price
        op: lte
        match: "5"
        amt: 7
        actions:
          - add_num: {var: Price, amt: 1}
`))
	require.NoError(t, err)

	group, ok := def.Tree.Tables[0].Root.(*engine.Group)
	require.True(t, ok)
	gate, ok := group.Child.(*engine.ConditionGate)
	require.True(t, ok)
	assert.Equal(t, 20, gate.Pending)
	require.NotNil(t, gate.Fallback)
	assert.Empty(t, gate.Fallback.Actions)
	assert.Equal(t, &engine.AddTable{Name: "AddTable", Table: "Extra", Count: 1}, gate.Primary.Actions[1])
	assert.Equal(t, &engine.UnknownAction{Name: "engrave", Variable: "Tags"}, gate.Primary.Actions[2])

	extra := def.Tree.Tables[1].Root.(*engine.ConditionGate)
	assert.Equal(t, 7, extra.Pending)
	assert.Nil(t, extra.Fallback)

	diags := def.Tree.Validate()
	require.Len(t, diags, 1)
	assert.Equal(t, engine.CodeMissingFallback, diags[0].Code)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := map[string]string{
		"bad type": `
variables:
  - {name: Price, type: decimal}
`,
		"two selectors": `
tables:
  - name: Base
    node:
      roll: {type: percentile}
      actions: []
`,
		"action shape": `
tables:
  - name: Base
    node:
      actions:
        - [save]
`,
		"seeds shape": `
seeds: [a, b]
`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(src))
			assert.Error(t, err)
		})
	}
}
