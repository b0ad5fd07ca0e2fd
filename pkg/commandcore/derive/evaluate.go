package derive

import (
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

// Apply runs descriptor's derivation rules, in declared order, against
// data. Each rule fires only if its field is still absent and its
// precondition is satisfied by the data accumulated so far (a rule can see
// fields computed by an earlier rule in the same pass, spec §4.3 step 5).
//
// Apply mutates and returns data; rule compute errors are collected but do
// not stop evaluation of subsequent rules, since a failed derivation simply
// leaves the field unresolved rather than invalidating the whole event.
func Apply(descriptor *model.EventDescriptor, data map[string]any) (map[string]any, []error) {
	if descriptor == nil || len(descriptor.DerivationRules) == 0 {
		return data, nil
	}

	var errs []error
	for _, rule := range descriptor.DerivationRules {
		if _, present := data[rule.Field]; present {
			continue
		}
		if !rule.Precond.Satisfied(data) {
			continue
		}

		value, err := rule.Compute(data)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if rule.Precision > 0 {
			if d, derr := ToDecimal(value); derr == nil {
				value = ToFloat64(RoundHalfEven(d, rule.Precision))
			}
		}

		data[rule.Field] = value
	}

	return data, errs
}

// Secondaries evaluates descriptor's secondary rules against data, in
// declared order, returning the rules whose predicate matched. Spec §4.4
// caps fan-out at one level: the event types returned here are never
// themselves re-evaluated for further secondaries.
func Secondaries(descriptor *model.EventDescriptor, data map[string]any) []model.SecondaryRule {
	if descriptor == nil || len(descriptor.SecondaryRules) == 0 {
		return nil
	}

	var fired []model.SecondaryRule
	for _, rule := range descriptor.SecondaryRules {
		if rule.Predicate == nil || rule.Predicate(data) {
			fired = append(fired, rule)
		}
	}
	return fired
}
