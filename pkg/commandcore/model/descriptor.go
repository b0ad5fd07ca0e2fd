package model

// FieldPrecondition describes which fields a derivation or secondary rule
// needs present or absent before it may fire.
type FieldPrecondition struct {
	// Present lists fields that must all be non-nil in extracted data.
	Present []string
	// Absent lists fields that must all be nil/missing from extracted data.
	Absent []string
}

// Satisfied reports whether data meets the precondition.
func (p FieldPrecondition) Satisfied(data map[string]any) bool {
	for _, f := range p.Present {
		if v, ok := data[f]; !ok || v == nil {
			return false
		}
	}
	for _, f := range p.Absent {
		if v, ok := data[f]; ok && v != nil {
			return false
		}
	}
	return true
}

// DerivationFunc computes a derived field's value from the fields already
// present in extracted data. It must be pure: no side effects, and the
// output must never be a field outside the descriptor's IdentifiableFields
// (catalog validation enforces this).
type DerivationFunc func(data map[string]any) (value any, err error)

// DerivationRule is a conditional rewrite: "if Precondition holds, compute
// Field from whatever is already present." Rules on a descriptor run in
// declared order; a rule only fires if Field is still absent when its turn
// comes, so later rules can depend on fields earlier rules populated.
type DerivationRule struct {
	Name      string
	Field     string
	Precond   FieldPrecondition
	Compute   DerivationFunc
	Precision int // fractional digits to round the result to, half-to-even; 0 means no rounding
}

// SecondaryPredicate decides whether a secondary event should be
// synthesized from a primary's (already derived) extracted data.
type SecondaryPredicate func(data map[string]any) bool

// SecondaryDataFunc maps a primary event's derived extracted data onto the
// shape a secondary event's descriptor expects, for the common case where
// the two descriptors name an overlapping concept differently (a pump
// event's "cost" becomes a purchase event's "amount"). Nil means identity:
// the secondary inherits whatever fields it shares by name with the
// primary, restricted to its own identifiable fields.
type SecondaryDataFunc func(data map[string]any) map[string]any

// SecondaryRule produces a secondary event when Predicate is satisfied by
// the primary event's derived extracted data. Secondary event descriptors
// are never themselves allowed to carry SecondaryRules (fan-out depth = 1);
// catalog validation rejects a catalog that violates this.
type SecondaryRule struct {
	Name      string
	EventType EventType
	Predicate SecondaryPredicate
	Data      SecondaryDataFunc
}

// ExtractKind identifies the shape of a simple textual pattern the
// classifier looks for when lifting a field directly from the utterance.
type ExtractKind string

// Supported extraction kinds.
const (
	ExtractCurrency     ExtractKind = "currency"      // "$45", "45 dollars"
	ExtractUnitQuantity ExtractKind = "unit_quantity"  // "12 gallons", "3 miles"
	ExtractUnitPrice    ExtractKind = "unit_price"     // "$4.33/gallon", "price per unit 3.459"
	ExtractDate         ExtractKind = "date"           // "2024-01-05", "yesterday"
	ExtractOdometer     ExtractKind = "odometer"       // "odometer 45000"
)

// ExtractPattern tells the classifier how to lift one field directly out of
// the raw utterance text via a simple pattern match, independent of the
// parser's output.
type ExtractPattern struct {
	Field string
	Kind  ExtractKind
	// Unit, when set, restricts ExtractUnitQuantity matches to that unit
	// (e.g. "gallon" also matches "gallons").
	Unit string
}

// EventDescriptor is the static metadata the Event Catalog holds for one
// event type: its classification signals (keywords, extraction patterns),
// its schema (identifiable/required fields), and its derivation and
// secondary rules.
type EventDescriptor struct {
	EventType EventType
	Category  Category
	Module    Module

	// Keywords are case-insensitive, whole-phrase indicators for this event
	// type. Their order within the list does not affect ranking; ties
	// between descriptors are broken by the descriptors' declaration order
	// in the catalog.
	Keywords []string

	IdentifiableFields []string
	RequiredFields     []string

	// FieldPrecision gives the declared rounding precision (fractional
	// digits) for a field. It is catalog metadata only: nothing in the
	// pipeline reads it. Derived values are rounded by each DerivationRule's
	// own Precision, and directly extracted values are not rounded.
	FieldPrecision map[string]int

	ExtractPatterns []ExtractPattern
	DerivationRules []DerivationRule
	SecondaryRules  []SecondaryRule
}

// HasIdentifiableField reports whether field is declared on the descriptor.
func (d *EventDescriptor) HasIdentifiableField(field string) bool {
	for _, f := range d.IdentifiableFields {
		if f == field {
			return true
		}
	}
	return false
}

// RestrictToIdentifiable returns a copy of data containing only keys that
// are declared identifiable fields on this descriptor, used when building a
// secondary event's extracted_data from a primary's.
func (d *EventDescriptor) RestrictToIdentifiable(data map[string]any) map[string]any {
	out := make(map[string]any, len(d.IdentifiableFields))
	for _, f := range d.IdentifiableFields {
		if v, ok := data[f]; ok {
			out[f] = v
		}
	}
	return out
}
