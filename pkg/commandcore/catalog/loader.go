package catalog

import (
	"fmt"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a declarative event catalog (spec §6:
// "Event catalog... representable in any structured format"). Derivation
// and secondary rules cannot be expressed as data (they carry Go compute
// functions), so a YAML-loaded catalog covers keywords, fields and
// precision only; rules must be attached programmatically after loading via
// AttachRules.
type document struct {
	Events []eventDoc `yaml:"events"`
}

type eventDoc struct {
	EventType          string         `yaml:"event_type"`
	Category           string         `yaml:"category"`
	Module             string         `yaml:"module"`
	Keywords           []string       `yaml:"keywords"`
	IdentifiableFields []string       `yaml:"identifiable_fields"`
	RequiredFields     []string       `yaml:"required_fields"`
	FieldPrecision     map[string]int `yaml:"field_precision"`
}

// FromYAML parses a declarative catalog document into descriptors, in file
// order. The result has no derivation or secondary rules; use AttachRules to
// wire them in by event type before calling Validate or New.
func FromYAML(data []byte) ([]*model.EventDescriptor, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	descriptors := make([]*model.EventDescriptor, 0, len(doc.Events))
	for _, e := range doc.Events {
		descriptors = append(descriptors, &model.EventDescriptor{
			EventType:          model.EventType(e.EventType),
			Category:           model.Category(e.Category),
			Module:             model.Module(e.Module),
			Keywords:           e.Keywords,
			IdentifiableFields: e.IdentifiableFields,
			RequiredFields:     e.RequiredFields,
			FieldPrecision:     e.FieldPrecision,
		})
	}
	return descriptors, nil
}

// RuleSet bundles the code-only parts of a descriptor (derivation and
// secondary rules) that a YAML document cannot express.
type RuleSet struct {
	Derivation []model.DerivationRule
	Secondary  []model.SecondaryRule
}

// AttachRules copies derivation and secondary rules from rules, keyed by
// event type, onto the matching descriptor in descriptors. Descriptors with
// no entry in rules are left without rules.
func AttachRules(descriptors []*model.EventDescriptor, rules map[model.EventType]RuleSet) {
	for _, d := range descriptors {
		if r, ok := rules[d.EventType]; ok {
			d.DerivationRules = r.Derivation
			d.SecondaryRules = r.Secondary
		}
	}
}
