package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/loot-table/internal/engine"
)

const sampleXML = `<MagicItems>
  <ItemVars>
    <Item_Category type="string"/>
    <Weapon type="string"/>
    <Quality type="string"/>
    <Price type="number"/>
    <PlusLevel type="number"/>
    <Properties type="list"/>
  </ItemVars>
  <Table>
    <Weapons default="true">
      <Categories varName="Item_Category">
        <Minor>
          <Save toSave="Dagger">Weapon</Save>
        </Minor>
        <Medium>
          <Roll type="percentile">
            <Sword maxRoll="50">
              <Save toSave="Longsword">Weapon</Save>
              <AddNum amt="15">Price</AddNum>
              <AddTable amt="2">Properties</AddTable>
            </Sword>
            <Gilded maxRoll="100">
              <ItemVarCheck toCheck="Price" op="lte" toMatch="10">
                <AddNum amt="20">Price</AddNum>
                <Save toSave="Gilded">Quality</Save>
                <Default>
                  <Save toSave="Plain">Quality</Save>
                </Default>
              </ItemVarCheck>
            </Gilded>
          </Roll>
        </Medium>
      </Categories>
    </Weapons>
    <Properties>
      <Roll type="percentile">
        <Keen maxRoll="100">
          <Save toSave="Keen">Properties</Save>
          <Engrave>Properties</Engrave>
          <AddNum amt="1">PlusLevel</AddNum>
        </Keen>
      </Roll>
    </Properties>
  </Table>
  <IndexTable>
    <Plus type="number" tableVar="PlusLevel">
      <Plus2 index="2" amt="500">Price</Plus2>
    </Plus>
  </IndexTable>
</MagicItems>`

func TestParseXML(t *testing.T) {
	def, err := ParseXML([]byte(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, "MagicItems", def.Name)
	assert.Len(t, def.Tree.Variables, 6)
	assert.Equal(t, engine.VarDef{Name: "Properties", Kind: engine.KindList}, def.Tree.Variables[5])
	require.Len(t, def.Tree.Tables, 2)
	assert.True(t, def.Tree.Tables[0].Default)
	assert.False(t, def.Tree.Tables[1].Default)
	assert.Empty(t, def.Tree.Validate())

	cat := def.Tree.Tables[0].Root.(*engine.CategorySelector)
	assert.Equal(t, "Item_Category", cat.Variable)
	medium := cat.Branches[1].Target.(*engine.Group)
	sel := medium.Child.(*engine.RollSelector)
	assert.Equal(t, engine.RollPercentile, sel.Kind)
	gate := sel.Bands[1].Target.(*engine.ConditionGate)
	assert.Equal(t, 20, gate.Pending)
	assert.Equal(t, "10", gate.Compare)
	assert.Len(t, gate.Primary.Actions, 2)
	assert.Len(t, gate.Fallback.Actions, 1)

	require.Len(t, def.Tree.Index, 1)
	assert.Equal(t, engine.Bucket{Index: 2, Variable: "Price", Amount: 500}, def.Tree.Index[0].Buckets[0])
}

func TestXMLRoll(t *testing.T) {
	def, err := ParseXML([]byte(sampleXML))
	require.NoError(t, err)
	def.Seeds = []engine.Seed{{Name: "Item_Category", Value: "Medium"}}

	item := roll(t, def, 30)
	assert.Equal(t, "Longsword", item["Weapon"])
	assert.Equal(t, []string{"Keen", "Keen"}, item["Properties"])
	// Two property rolls make PlusLevel 2, worth 500 more.
	assert.Equal(t, 515, item["Price"])

	item = roll(t, def, 80)
	assert.Equal(t, "Plain", item["Quality"])
	assert.Equal(t, 0, item["Price"])
}

func TestXMLCheckPendingFromFirstAction(t *testing.T) {
	def, err := ParseXML([]byte(`<Items>
  <ItemVars><Price type="number"/></ItemVars>
  <Table>
    <Base default="true">
      <Gate>
        <ItemVarCheck toCheck="Price" op="lte" toMatch="10">
          <AddNum amt="0">Price</AddNum>
          <AddNum amt="20">Price</AddNum>
          <Default/>
        </ItemVarCheck>
      </Gate>
    </Base>
  </Table>
</Items>`))
	require.NoError(t, err)

	gate := def.Tree.Tables[0].Root.(*engine.ConditionGate)
	assert.Equal(t, 0, gate.Pending)
	assert.Len(t, gate.Primary.Actions, 2)
	assert.NotNil(t, gate.Fallback)
}

func TestParseXMLErrors(t *testing.T) {
	_, err := ParseXML([]byte(`<Items><ItemVars><Price type="money"/></ItemVars></Items>`))
	assert.Error(t, err)

	_, err = ParseXML([]byte(`<Items><Table><T><Roll type="percentile"><A maxRoll="lots"/></Roll></T></Table></Items>`))
	assert.Error(t, err)

	_, err = ParseXML([]byte(`<Items>`))
	assert.Error(t, err)
}
