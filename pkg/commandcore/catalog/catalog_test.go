package catalog

import (
	"testing"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_ValidatesCleanly(t *testing.T) {
	require.NoError(t, Validate(Builtin()))
}

func TestDescriptorFor_KnownAndUnknown(t *testing.T) {
	c := New(Builtin())

	d := c.DescriptorFor(model.EventPump)
	require.NotNil(t, d)
	assert.Equal(t, model.CategoryFleet, d.Category)
	assert.Equal(t, model.ModuleFleet, d.Module)

	assert.Nil(t, c.DescriptorFor(model.EventType("not_a_real_event")))
}

func TestCandidatesForKeywords_TieBrokenByDeclarationOrder(t *testing.T) {
	// Two descriptors with an equal single-keyword match of equal length:
	// the earlier-declared one must win the tie (spec §4.1, "Explicit
	// Keywords Win" / declaration order encodes domain priority).
	descriptors := []*model.EventDescriptor{
		{EventType: model.EventPump, Category: model.CategoryFleet, Module: model.ModuleFleet, Keywords: []string{"gas"}},
		{EventType: model.EventPurchase, Category: model.CategoryMoney, Module: model.ModuleAccounting, Keywords: []string{"gas"}},
	}
	c := New(descriptors)

	candidates := c.CandidatesForKeywords("got gas, $40")
	require.Len(t, candidates, 2)
	assert.Equal(t, model.EventPump, candidates[0])
}

func TestCandidatesForKeywords_MoreMatchesRanksFirst(t *testing.T) {
	c := New(Builtin())

	// Maintenance matches two keywords ("oil change", "tire rotation"; longest
	// 13 chars). Stock matches one longer keyword ("bought groceries", 16
	// chars) and purchase matches "bought": the higher match count still
	// ranks maintenance first.
	candidates := c.CandidatesForKeywords("Got an oil change and a tire rotation, bought groceries")
	require.NotEmpty(t, candidates)
	assert.Equal(t, model.EventMaintenance, candidates[0])
}

func TestCandidatesForKeywords_WholePhraseOnly(t *testing.T) {
	c := New(Builtin())

	// "gasoline" should not spuriously match the "gas" keyword.
	candidates := c.CandidatesForKeywords("Filled the tank with gasoline additive")
	for _, ct := range candidates {
		assert.NotEqual(t, model.EventPump, ct, "gasoline should not match the whole-phrase keyword 'gas'")
	}
}

func TestCandidatesForKeywords_NoMatchReturnsEmpty(t *testing.T) {
	c := New(Builtin())
	assert.Empty(t, c.CandidatesForKeywords("completely unrelated text with no keywords"))
}

func TestValidate_RejectsDuplicateEventType(t *testing.T) {
	descriptors := []*model.EventDescriptor{
		{EventType: model.EventPump, Category: model.CategoryFleet, Module: model.ModuleFleet},
		{EventType: model.EventPump, Category: model.CategoryFleet, Module: model.ModuleFleet},
	}
	assert.Error(t, Validate(descriptors))
}

func TestValidate_RejectsModuleCategoryMismatch(t *testing.T) {
	descriptors := []*model.EventDescriptor{
		{EventType: model.EventPump, Category: model.CategoryFleet, Module: model.ModuleAccounting},
	}
	assert.Error(t, Validate(descriptors))
}

func TestValidate_RejectsRequiredFieldNotIdentifiable(t *testing.T) {
	descriptors := []*model.EventDescriptor{
		{
			EventType:          model.EventPump,
			Category:           model.CategoryFleet,
			Module:             model.ModuleFleet,
			IdentifiableFields: []string{"cost"},
			RequiredFields:     []string{"quantity"},
		},
	}
	assert.Error(t, Validate(descriptors))
}

func TestValidate_RejectsSecondaryFanOutDepthGreaterThanOne(t *testing.T) {
	descriptors := []*model.EventDescriptor{
		{
			EventType: model.EventPump,
			Category:  model.CategoryFleet,
			Module:    model.ModuleFleet,
			SecondaryRules: []model.SecondaryRule{
				{Name: "s1", EventType: model.EventPurchase},
			},
		},
		{
			EventType: model.EventPurchase,
			Category:  model.CategoryMoney,
			Module:    model.ModuleAccounting,
			SecondaryRules: []model.SecondaryRule{
				{Name: "s2", EventType: model.EventReminder},
			},
		},
		{
			EventType: model.EventReminder,
			Category:  model.CategoryCalendar,
			Module:    model.ModuleCalendar,
		},
	}
	assert.Error(t, Validate(descriptors))
}

func TestFromYAML_ParsesDescriptors(t *testing.T) {
	doc := []byte(`
events:
  - event_type: pump
    category: fleet
    module: fleet
    keywords: ["gas", "fuel"]
    identifiable_fields: ["cost", "quantity"]
    required_fields: ["cost"]
    field_precision:
      cost: 2
`)
	descriptors, err := FromYAML(doc)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, model.EventPump, descriptors[0].EventType)
	assert.Equal(t, []string{"gas", "fuel"}, descriptors[0].Keywords)
	assert.Equal(t, 2, descriptors[0].FieldPrecision["cost"])
}
