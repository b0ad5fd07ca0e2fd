package derive

import (
	"testing"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantityFromCostAndPrice(data map[string]any) (any, error) {
	q, err := Div(data["cost"], data["price_per_unit"])
	if err != nil {
		return nil, err
	}
	return ToFloat64(q), nil
}

func costFromQuantityAndPrice(data map[string]any) (any, error) {
	c, err := Mul(data["quantity"], data["price_per_unit"])
	if err != nil {
		return nil, err
	}
	return ToFloat64(c), nil
}

func pumpDescriptor() *model.EventDescriptor {
	return &model.EventDescriptor{
		EventType: model.EventPump,
		DerivationRules: []model.DerivationRule{
			{
				Name:      "quantity_from_cost_and_price",
				Field:     "quantity",
				Precond:   model.FieldPrecondition{Present: []string{"cost", "price_per_unit"}, Absent: []string{"quantity"}},
				Compute:   quantityFromCostAndPrice,
				Precision: 3,
			},
			{
				Name:      "cost_from_quantity_and_price",
				Field:     "cost",
				Precond:   model.FieldPrecondition{Present: []string{"quantity", "price_per_unit"}, Absent: []string{"cost"}},
				Compute:   costFromQuantityAndPrice,
				Precision: 2,
			},
		},
	}
}

func TestApply_DerivesQuantityFromCostAndPrice(t *testing.T) {
	data := map[string]any{"cost": 45.00, "price_per_unit": 3.459}
	result, errs := Apply(pumpDescriptor(), data)
	require.Empty(t, errs)
	assert.InDelta(t, 13.01, result["quantity"].(float64), 0.01)
}

func TestApply_DerivesCostFromQuantityAndPrice(t *testing.T) {
	data := map[string]any{"quantity": 10.0, "price_per_unit": 3.459}
	result, errs := Apply(pumpDescriptor(), data)
	require.Empty(t, errs)
	assert.InDelta(t, 34.59, result["cost"].(float64), 0.01)
}

func TestApply_SkipsRuleWhenFieldAlreadyPresent(t *testing.T) {
	data := map[string]any{"cost": 45.00, "price_per_unit": 3.459, "quantity": 99.0}
	result, errs := Apply(pumpDescriptor(), data)
	require.Empty(t, errs)
	assert.Equal(t, 99.0, result["quantity"])
}

func TestApply_SkipsRuleWhenPreconditionUnsatisfied(t *testing.T) {
	data := map[string]any{"cost": 45.00}
	result, errs := Apply(pumpDescriptor(), data)
	require.Empty(t, errs)
	_, ok := result["quantity"]
	assert.False(t, ok)
}

func TestApply_NoRulesIsNoop(t *testing.T) {
	data := map[string]any{"amount": 10.0}
	result, errs := Apply(&model.EventDescriptor{EventType: model.EventPurchase}, data)
	assert.Empty(t, errs)
	assert.Equal(t, map[string]any{"amount": 10.0}, result)
}

func TestSecondaries_ReturnsMatchingEventTypes(t *testing.T) {
	descriptor := &model.EventDescriptor{
		SecondaryRules: []model.SecondaryRule{
			{Name: "large_purchase", EventType: model.EventAPInvoice, Predicate: func(d map[string]any) bool {
				amt, _ := d["amount"].(float64)
				return amt > 100
			}},
			{Name: "always", EventType: model.EventReminder, Predicate: nil},
		},
	}

	fired := Secondaries(descriptor, map[string]any{"amount": 150.0})
	require.Len(t, fired, 2)
	assert.Equal(t, model.EventAPInvoice, fired[0].EventType)
	assert.Equal(t, model.EventReminder, fired[1].EventType)

	fired = Secondaries(descriptor, map[string]any{"amount": 10.0})
	require.Len(t, fired, 1)
	assert.Equal(t, model.EventReminder, fired[0].EventType)
}

func TestRoundHalfEven_BankersRounding(t *testing.T) {
	d, err := ToDecimal(0.125)
	require.NoError(t, err)
	assert.Equal(t, "0.12", RoundHalfEven(d, 2).String())

	d, err = ToDecimal(0.135)
	require.NoError(t, err)
	assert.Equal(t, "0.14", RoundHalfEven(d, 2).String())
}

func TestDiv_DivisionByZero(t *testing.T) {
	_, err := Div(10.0, 0.0)
	assert.Error(t, err)
}
