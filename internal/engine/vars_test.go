package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []VarDef {
	return []VarDef{
		{Name: "Item_Category", Kind: KindString},
		{Name: "Price", Kind: KindNumber},
		{Name: "Properties", Kind: KindList},
		{Name: "Price", Kind: KindString},
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"number": KindNumber, "String": KindString, " list ": KindList} {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("bool")
	assert.Error(t, err)
}

func TestNewStoreKeepsDeclarationOrder(t *testing.T) {
	s := NewStore(testDefs())
	assert.Equal(t, []string{"Item_Category", "Price", "Properties"}, s.Names())

	price, ok := s.Get("Price")
	require.True(t, ok)
	assert.Equal(t, KindNumber, price.Kind, "first declaration wins")
}

func TestStoreAssign(t *testing.T) {
	s := NewStore(testDefs())

	require.NoError(t, s.assign("Item_Category", "Medium"))
	require.NoError(t, s.assign("Price", 90))
	require.NoError(t, s.assign("Price", float64(95)))
	require.NoError(t, s.assign("Properties", []string{"Flaming"}))

	assert.Equal(t, map[string]any{
		"Item_Category": "Medium",
		"Price":         95,
		"Properties":    []string{"Flaming"},
	}, s.Map())

	props, _ := s.Get("Properties")
	assert.Equal(t, []Entry{{Tag: "Properties", Value: "Flaming"}}, props.List)

	err := s.assign("Missing", 1)
	assert.ErrorIs(t, err, ErrUnknownVariable)

	err = s.assign("Price", "ten")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.assign("Price", 1.5)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.assign("Item_Category", 3)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.assign("Properties", "Flaming")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(testDefs())
	require.NoError(t, s.assign("Properties", []string{"Keen"}))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "list", snap[2].Kind)

	entries := snap[2].Value.([]Entry)
	entries[0].Value = "changed"

	props, _ := s.Get("Properties")
	assert.Equal(t, "Keen", props.List[0].Value)
}
