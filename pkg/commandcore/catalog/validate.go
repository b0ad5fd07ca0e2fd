package catalog

import (
	"fmt"
	"strings"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

// moduleForCategory is the fixed category -> module mapping every
// descriptor must respect (spec §3: "Each event type is immutably
// associated with exactly one category and one target module").
var moduleForCategory = map[model.Category]model.Module{
	model.CategoryMoney:         model.ModuleAccounting,
	model.CategoryFleet:         model.ModuleFleet,
	model.CategoryHealth:        model.ModuleHealth,
	model.CategoryFoodInventory: model.ModuleFoodInventory,
	model.CategoryCalendar:      model.ModuleCalendar,
}

// Validate checks descriptors for the invariants a catalog must hold before
// it can be trusted by a live orchestrator (spec §6: fatal catalog errors at
// startup). It is deliberately separate from New so a host can validate a
// catalog document (e.g. in CI) without constructing one.
func Validate(descriptors []*model.EventDescriptor) error {
	seen := make(map[model.EventType]bool, len(descriptors))
	var errs []string

	for _, d := range descriptors {
		if d.EventType == "" {
			errs = append(errs, "descriptor with empty event_type")
			continue
		}
		if seen[d.EventType] {
			errs = append(errs, fmt.Sprintf("duplicate event_type %q", d.EventType))
			continue
		}
		seen[d.EventType] = true

		wantModule, ok := moduleForCategory[d.Category]
		if !ok {
			errs = append(errs, fmt.Sprintf("event_type %q: unknown category %q", d.EventType, d.Category))
		} else if d.Module != wantModule {
			errs = append(errs, fmt.Sprintf("event_type %q: module %q does not match category %q (want %q)", d.EventType, d.Module, d.Category, wantModule))
		}

		for _, field := range d.RequiredFields {
			if !d.HasIdentifiableField(field) {
				errs = append(errs, fmt.Sprintf("event_type %q: required field %q is not an identifiable field", d.EventType, field))
			}
		}

		for _, rule := range d.DerivationRules {
			if !d.HasIdentifiableField(rule.Field) {
				errs = append(errs, fmt.Sprintf("event_type %q: derivation rule %q targets non-identifiable field %q", d.EventType, rule.Name, rule.Field))
			}
			if rule.Compute == nil {
				errs = append(errs, fmt.Sprintf("event_type %q: derivation rule %q has no compute function", d.EventType, rule.Name))
			}
		}
	}

	// Fan-out depth = 1: no secondary target may itself carry secondary
	// rules (spec invariant 5).
	for _, d := range descriptors {
		for _, rule := range d.SecondaryRules {
			target, ok := findDescriptor(descriptors, rule.EventType)
			if !ok {
				errs = append(errs, fmt.Sprintf("event_type %q: secondary rule %q targets unknown event_type %q", d.EventType, rule.Name, rule.EventType))
				continue
			}
			if len(target.SecondaryRules) > 0 {
				errs = append(errs, fmt.Sprintf("event_type %q: secondary rule %q targets %q, which itself has secondary rules (fan-out depth must be 1)", d.EventType, rule.Name, rule.EventType))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func findDescriptor(descriptors []*model.EventDescriptor, eventType model.EventType) (*model.EventDescriptor, bool) {
	for _, d := range descriptors {
		if d.EventType == eventType {
			return d, true
		}
	}
	return nil, false
}
