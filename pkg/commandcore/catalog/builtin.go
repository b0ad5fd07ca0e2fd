package catalog

import (
	"github.com/limos-platform/commandcore/pkg/commandcore/derive"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

// Builtin returns the default event catalog shipped with this module,
// covering every event type in spec §3. Declaration order encodes domain
// priority: Fleet descriptors are declared before Money's generic purchase
// descriptor so an explicit fuel keyword outranks a generic spending
// keyword when both the match count and the longest matched keyword length
// tie (spec §4.1, "Explicit Keywords Win").
func Builtin() []*model.EventDescriptor {
	var all []*model.EventDescriptor
	all = append(all, fleetDescriptors()...)
	all = append(all, moneyDescriptors()...)
	all = append(all, healthDescriptors()...)
	all = append(all, foodInventoryDescriptors()...)
	all = append(all, calendarDescriptors()...)
	return all
}

func positiveField(field string) model.SecondaryPredicate {
	return func(data map[string]any) bool {
		v, ok := data[field]
		if !ok {
			return false
		}
		d, err := derive.ToDecimal(v)
		if err != nil {
			return false
		}
		return d.IsPositive()
	}
}

func quantityFromCostAndPrice(data map[string]any) (any, error) {
	q, err := derive.Div(data["cost"], data["price_per_unit"])
	if err != nil {
		return nil, err
	}
	return derive.ToFloat64(q), nil
}

func costFromQuantityAndPrice(data map[string]any) (any, error) {
	c, err := derive.Mul(data["quantity"], data["price_per_unit"])
	if err != nil {
		return nil, err
	}
	return derive.ToFloat64(c), nil
}

// costToAmount maps a fleet/inventory event's "cost" field onto the
// Money category's "amount" field, the shape the purchase descriptor
// expects from its secondary rules.
func costToAmount(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	if v, ok := data["cost"]; ok {
		out["amount"] = v
	}
	return out
}

func pricePerUnitFromCostAndQuantity(data map[string]any) (any, error) {
	p, err := derive.Div(data["cost"], data["quantity"])
	if err != nil {
		return nil, err
	}
	return derive.ToFloat64(p), nil
}

func fleetDescriptors() []*model.EventDescriptor {
	return []*model.EventDescriptor{
		{
			EventType: model.EventPump,
			Category:  model.CategoryFleet,
			Module:    model.ModuleFleet,
			Keywords:  []string{"filled up", "fill up", "gas", "fuel", "pump", "gallons"},
			IdentifiableFields: []string{
				"cost", "quantity", "price_per_unit", "odometer", "vehicle",
				"fuel_type", "location", "from_account", "to_account",
			},
			RequiredFields: []string{
				"price_per_unit", "quantity", "cost",
				"fuel_type", "location", "from_account", "to_account",
			},
			FieldPrecision: map[string]int{"cost": 2, "price_per_unit": 3, "quantity": 3},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "cost", Kind: model.ExtractCurrency},
				{Field: "quantity", Kind: model.ExtractUnitQuantity, Unit: "gallon"},
				{Field: "price_per_unit", Kind: model.ExtractUnitPrice, Unit: "gallon"},
				{Field: "odometer", Kind: model.ExtractOdometer},
			},
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
				{
					Name:      "price_per_unit_from_cost_and_quantity",
					Field:     "price_per_unit",
					Precond:   model.FieldPrecondition{Present: []string{"cost", "quantity"}, Absent: []string{"price_per_unit"}},
					Compute:   pricePerUnitFromCostAndQuantity,
					Precision: 3,
				},
			},
			SecondaryRules: []model.SecondaryRule{
				{Name: "fuel_cost_is_an_expense", EventType: model.EventPurchase, Predicate: positiveField("cost"), Data: costToAmount},
			},
		},
		{
			EventType:          model.EventRepair,
			Category:           model.CategoryFleet,
			Module:             model.ModuleFleet,
			Keywords:           []string{"repaired", "repair", "fixed the"},
			IdentifiableFields: []string{"cost", "vehicle", "description"},
			RequiredFields:     []string{"cost"},
			FieldPrecision:     map[string]int{"cost": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "cost", Kind: model.ExtractCurrency},
			},
			SecondaryRules: []model.SecondaryRule{
				{Name: "repair_cost_is_an_expense", EventType: model.EventPurchase, Predicate: positiveField("cost"), Data: costToAmount},
			},
		},
		{
			EventType:          model.EventMaintenance,
			Category:           model.CategoryFleet,
			Module:             model.ModuleFleet,
			Keywords:           []string{"oil change", "tire rotation", "tune up", "maintenance"},
			IdentifiableFields: []string{"cost", "vehicle", "service_type"},
			RequiredFields:     []string{"cost"},
			FieldPrecision:     map[string]int{"cost": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "cost", Kind: model.ExtractCurrency},
			},
			SecondaryRules: []model.SecondaryRule{
				{Name: "maintenance_cost_is_an_expense", EventType: model.EventPurchase, Predicate: positiveField("cost"), Data: costToAmount},
			},
		},
		{
			EventType:          model.EventTravel,
			Category:           model.CategoryFleet,
			Module:             model.ModuleFleet,
			Keywords:           []string{"road trip to", "driving to", "drove to", "travel to"},
			IdentifiableFields: []string{"destination", "odometer", "distance"},
			RequiredFields:     []string{"destination"},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "odometer", Kind: model.ExtractOdometer},
				{Field: "distance", Kind: model.ExtractUnitQuantity, Unit: "mile"},
			},
		},
	}
}

func moneyDescriptors() []*model.EventDescriptor {
	return []*model.EventDescriptor{
		{
			EventType:          model.EventPurchase,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"bought", "purchased", "spent", "buy"},
			IdentifiableFields: []string{"amount", "vendor", "category", "date"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
				{Field: "date", Kind: model.ExtractDate},
			},
		},
		{
			EventType:          model.EventReturn,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"returned", "refund"},
			IdentifiableFields: []string{"amount", "vendor", "date"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
		{
			EventType:          model.EventTransfer,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"transferred", "transfer to", "moved money"},
			IdentifiableFields: []string{"amount", "from_account", "to_account"},
			RequiredFields:     []string{"amount", "to_account"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
		{
			EventType:          model.EventAPPayment,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"paid invoice", "paid bill", "ap payment"},
			IdentifiableFields: []string{"amount", "payee", "invoice_id"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
		{
			EventType:          model.EventAPInvoice,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"invoice received", "new invoice"},
			IdentifiableFields: []string{"amount", "payee", "invoice_id", "due_date"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
				{Field: "due_date", Kind: model.ExtractDate},
			},
		},
		{
			EventType:          model.EventDeposit,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"deposited", "deposit"},
			IdentifiableFields: []string{"amount", "account"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
		{
			EventType:          model.EventACH,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"ach transfer", "direct deposit"},
			IdentifiableFields: []string{"amount", "account"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
		{
			EventType:          model.EventSales,
			Category:           model.CategoryMoney,
			Module:             model.ModuleAccounting,
			Keywords:           []string{"invoiced customer", "sold", "sale"},
			IdentifiableFields: []string{"amount", "customer"},
			RequiredFields:     []string{"amount"},
			FieldPrecision:     map[string]int{"amount": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "amount", Kind: model.ExtractCurrency},
			},
		},
	}
}

func healthDescriptors() []*model.EventDescriptor {
	return []*model.EventDescriptor{
		{
			EventType:          model.EventMeal,
			Category:           model.CategoryHealth,
			Module:             model.ModuleHealth,
			Keywords:           []string{"had breakfast", "had lunch", "had dinner", "ate", "meal"},
			IdentifiableFields: []string{"description", "calories"},
			RequiredFields:     []string{"description"},
		},
		{
			EventType:          model.EventExercise,
			Category:           model.CategoryHealth,
			Module:             model.ModuleHealth,
			Keywords:           []string{"worked out", "exercised", "workout", "gym"},
			IdentifiableFields: []string{"activity", "duration_minutes"},
			RequiredFields:     []string{"activity"},
		},
		{
			EventType:          model.EventHike,
			Category:           model.CategoryHealth,
			Module:             model.ModuleHealth,
			Keywords:           []string{"went hiking", "hiked", "hike"},
			IdentifiableFields: []string{"trail", "distance", "duration_minutes"},
			RequiredFields:     []string{"trail"},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "distance", Kind: model.ExtractUnitQuantity, Unit: "mile"},
			},
		},
	}
}

func foodInventoryDescriptors() []*model.EventDescriptor {
	return []*model.EventDescriptor{
		{
			EventType:          model.EventStock,
			Category:           model.CategoryFoodInventory,
			Module:             model.ModuleFoodInventory,
			Keywords:           []string{"bought groceries", "stocked up", "added to pantry"},
			IdentifiableFields: []string{"item", "quantity", "unit", "expiry_date", "cost"},
			RequiredFields:     []string{"item"},
			FieldPrecision:     map[string]int{"cost": 2},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "cost", Kind: model.ExtractCurrency},
				{Field: "expiry_date", Kind: model.ExtractDate},
			},
			SecondaryRules: []model.SecondaryRule{
				{Name: "grocery_cost_is_an_expense", EventType: model.EventPurchase, Predicate: positiveField("cost"), Data: costToAmount},
			},
		},
		{
			EventType:          model.EventUseFood,
			Category:           model.CategoryFoodInventory,
			Module:             model.ModuleFoodInventory,
			Keywords:           []string{"used up", "cooked with", "consumed"},
			IdentifiableFields: []string{"item", "quantity", "unit"},
			RequiredFields:     []string{"item"},
		},
		{
			EventType:          model.EventFoodExpiryCheck,
			Category:           model.CategoryFoodInventory,
			Module:             model.ModuleFoodInventory,
			Keywords:           []string{"expiring soon", "what's expiring", "check expiry"},
			IdentifiableFields: []string{"item"},
		},
	}
}

func calendarDescriptors() []*model.EventDescriptor {
	return []*model.EventDescriptor{
		{
			EventType:          model.EventAppointment,
			Category:           model.CategoryCalendar,
			Module:             model.ModuleCalendar,
			Keywords:           []string{"book appointment", "scheduled appointment", "appointment"},
			IdentifiableFields: []string{"title", "date", "time"},
			RequiredFields:     []string{"title", "date"},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "date", Kind: model.ExtractDate},
			},
		},
		{
			EventType:          model.EventReminder,
			Category:           model.CategoryCalendar,
			Module:             model.ModuleCalendar,
			Keywords:           []string{"remind me", "reminder"},
			IdentifiableFields: []string{"title", "date"},
			RequiredFields:     []string{"title"},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "date", Kind: model.ExtractDate},
			},
		},
		{
			EventType:          model.EventTask,
			Category:           model.CategoryCalendar,
			Module:             model.ModuleCalendar,
			Keywords:           []string{"add task", "to-do", "todo"},
			IdentifiableFields: []string{"title", "due_date"},
			RequiredFields:     []string{"title"},
			ExtractPatterns: []model.ExtractPattern{
				{Field: "due_date", Kind: model.ExtractDate},
			},
		},
	}
}
