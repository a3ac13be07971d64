package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suderio/loot-table/internal/engine"
	"github.com/suderio/loot-table/internal/persistence"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(0))
	assert.Equal(t, "150", formatValue(150))
	assert.Equal(t, "150", formatValue(float64(150)))
	assert.Equal(t, "Longsword", formatValue("Longsword"))
	assert.Equal(t, "Property: Keen, Bane: Undead", formatValue([]engine.Entry{
		{Tag: "Property", Value: "Keen"},
		{Tag: "Bane", Value: "Undead"},
	}))
	assert.Equal(t, "Property: Keen", formatValue([]any{
		map[string]any{"tag": "Property", "value": "Keen"},
	}))
}

func TestRenderItem(t *testing.T) {
	rec := &persistence.Record{
		ID:    "0123456789abcdef",
		Table: "weapons",
		Rolls: 2,
		Values: []engine.Snapshot{
			{Name: "Weapon", Kind: "string", Value: "Rapier"},
			{Name: "Quality", Kind: "string", Value: ""},
			{Name: "Price", Kind: "number", Value: 45},
		},
		Warnings: []engine.Diagnostic{{Code: engine.CodeNoBand, Message: "roll produced no result"}},
	}

	out := renderItem(rec, false)
	assert.Contains(t, out, "weapons")
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "Rapier")
	assert.Contains(t, out, "45")
	assert.NotContains(t, out, "Quality")
	assert.Contains(t, out, "W_NO_BAND")

	assert.Contains(t, renderItem(rec, true), "Quality")
}
