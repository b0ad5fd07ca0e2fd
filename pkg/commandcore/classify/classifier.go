// Package classify implements the Classifier (spec §4.3): it turns an
// utterance plus the Parser Client's (possibly absent) interpretation into
// a canonical ClassificationResult, reconciling the deterministic keyword
// scan against the LLM's hint, applying derivation rules, validating
// required fields, and scoring confidence.
package classify

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/limos-platform/commandcore/pkg/commandcore/catalog"
	"github.com/limos-platform/commandcore/pkg/commandcore/derive"
	"github.com/limos-platform/commandcore/pkg/commandcore/errors"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
	"github.com/limos-platform/commandcore/pkg/commandcore/parser"
)

// Options configures the classifier's thresholds (spec §6 configuration).
type Options struct {
	MinConfidence             float64
	SecondaryConfidencePenalty float64
}

// DefaultOptions matches the spec's enumerated defaults.
func DefaultOptions() Options {
	return Options{
		MinConfidence:              minConfidenceDefault,
		SecondaryConfidencePenalty: 0.05,
	}
}

// Classifier is a pure function over (utterance, parser output, catalog);
// it holds no mutable state beyond its catalog and options.
type Classifier struct {
	catalog *catalog.Catalog
	opts    Options
}

// New builds a Classifier over cat with opts.
func New(cat *catalog.Catalog, opts Options) *Classifier {
	return &Classifier{catalog: cat, opts: opts}
}

// Diagnostics carries the non-fatal messages a single Classify call
// produced (dropped unknown event types, dropped secondaries, parser
// disagreement), formatted consistently rather than ad hoc.
type Diagnostics []string

// Classify runs the eight-step algorithm of spec §4.3. parserOutput may be
// nil (the parser failed or was skipped); Classify never sees the parser's
// error itself — the Command Orchestrator records it as a diagnostic.
func (c *Classifier) Classify(utterance string, parserOutput *parser.Output) (*model.ClassificationResult, Diagnostics, error) {
	var diags Diagnostics

	// Step 1: keyword candidates.
	keywordCandidates := c.catalog.CandidatesForKeywords(utterance)

	// Step 2: parser candidates, intersected with the catalog; unknown
	// event types are dropped with a diagnostic, not an error.
	var parserCandidates []model.EventType
	var parserPrimaryHint model.EventType
	var parserConfidence float64
	if parserOutput != nil {
		parserConfidence = parserOutput.Confidence
		parserPrimaryHint = parserOutput.PrimaryEvent
		for _, et := range parserOutput.ProposedEventTypes {
			if c.catalog.DescriptorFor(et) != nil {
				parserCandidates = append(parserCandidates, et)
			} else {
				diags = append(diags, fmt.Sprintf("dropped unknown event type %q proposed by parser", et))
			}
		}
	}

	// Step 3: primary selection.
	primaryType, source, ok := selectPrimary(keywordCandidates, parserCandidates, parserPrimaryHint)
	if !ok {
		return nil, diags, &errors.UnclassifiableError{Utterance: utterance}
	}
	if source == model.SourceKeyword {
		if parserPrimaryHint != "" && parserPrimaryHint != primaryType {
			diags = append(diags, fmt.Sprintf("parser disagreement: parser proposed %q, keyword match chose %q", parserPrimaryHint, primaryType))
		} else if len(parserCandidates) > 0 {
			diags = append(diags, fmt.Sprintf("parser disagreement: parser proposed %v, keyword match chose %q", parserCandidates, primaryType))
		}
	}

	descriptor := c.catalog.DescriptorFor(primaryType)
	if descriptor == nil {
		return nil, diags, &errors.UnclassifiableError{Utterance: utterance}
	}

	// Step 4: data assembly. Keyword/utterance extraction wins; parser data
	// only fills gaps.
	data := make(map[string]any)
	if parserOutput != nil {
		for k, v := range parserOutput.ExtractedData {
			if v != nil {
				data[k] = v
			}
		}
	}
	for field, value := range ExtractFromUtterance(descriptor, utterance) {
		data[field] = value
	}
	data = descriptor.RestrictToIdentifiable(data)

	// Step 5: derivation.
	data, derivationErrs := derive.Apply(descriptor, data)
	for _, derr := range derivationErrs {
		diags = append(diags, fmt.Sprintf("derivation error for %s: %v", primaryType, derr))
	}

	// Step 6: validation.
	missing := missingRequiredFields(descriptor, data)
	if len(missing) > 0 {
		return nil, diags, &errors.ValidationError{EventType: string(primaryType), Missing: missing}
	}

	// Step 7: confidence.
	matched := matchedKeywordCount(descriptor, utterance)
	completeness := completenessRatio(descriptor, data)
	confidence := score(source, matched, completeness, parserConfidence)

	if confidence < c.opts.MinConfidence {
		if source == model.SourceMerged {
			confidence = c.opts.MinConfidence
		} else {
			return nil, diags, &errors.LowConfidenceError{
				EventType:  string(primaryType),
				Confidence: confidence,
				Threshold:  c.opts.MinConfidence,
			}
		}
	}

	primary := model.ClassifiedEvent{
		EventID:       uuid.NewString(),
		EventType:     primaryType,
		Category:      descriptor.Category,
		Module:        descriptor.Module,
		ExtractedData: data,
		Confidence:    confidence,
		IsSecondary:   false,
	}

	// Step 8: secondaries.
	secondaries, secondaryDiags := c.buildSecondaries(descriptor, data, confidence)
	diags = append(diags, secondaryDiags...)

	unresolved := unresolvedFields(descriptor, data)

	return &model.ClassificationResult{
		Primary:     primary,
		Secondaries: secondaries,
		Unresolved:  unresolved,
		Source:      source,
	}, diags, nil
}

func (c *Classifier) buildSecondaries(descriptor *model.EventDescriptor, data map[string]any, primaryConfidence float64) ([]model.ClassifiedEvent, Diagnostics) {
	var secondaries []model.ClassifiedEvent
	var diags Diagnostics

	for _, rule := range derive.Secondaries(descriptor, data) {
		eventType := rule.EventType
		secondaryDescriptor := c.catalog.DescriptorFor(eventType)
		if secondaryDescriptor == nil {
			diags = append(diags, fmt.Sprintf("dropped secondary %q: no such event type in catalog", eventType))
			continue
		}

		sourceData := data
		if rule.Data != nil {
			sourceData = rule.Data(data)
		}

		secondaryData := secondaryDescriptor.RestrictToIdentifiable(sourceData)
		secondaryData, derivationErrs := derive.Apply(secondaryDescriptor, secondaryData)
		for _, derr := range derivationErrs {
			diags = append(diags, fmt.Sprintf("derivation error for secondary %s: %v", eventType, derr))
		}

		missing := missingRequiredFields(secondaryDescriptor, secondaryData)
		if len(missing) > 0 {
			diags = append(diags, fmt.Sprintf("dropped secondary %q: missing required fields %v", eventType, missing))
			continue
		}

		confidence := primaryConfidence - c.opts.SecondaryConfidencePenalty
		if confidence < c.opts.MinConfidence {
			diags = append(diags, fmt.Sprintf("dropped secondary %q: confidence %.2f below threshold", eventType, confidence))
			continue
		}

		secondaries = append(secondaries, model.ClassifiedEvent{
			EventID:       uuid.NewString(),
			EventType:     eventType,
			Category:      secondaryDescriptor.Category,
			Module:        secondaryDescriptor.Module,
			ExtractedData: secondaryData,
			Confidence:    confidence,
			IsSecondary:   true,
		})
	}

	return secondaries, diags
}

// selectPrimary implements spec §4.3 step 3. ok is false when neither
// keywords nor the parser produced any candidate.
func selectPrimary(keywordCandidates, parserCandidates []model.EventType, parserPrimaryHint model.EventType) (eventType model.EventType, source model.Source, ok bool) {
	if len(keywordCandidates) > 0 {
		top := keywordCandidates[0]
		if containsEventType(parserCandidates, top) {
			return top, model.SourceMerged, true
		}
		return top, model.SourceKeyword, true
	}

	if len(parserCandidates) > 0 {
		if parserPrimaryHint != "" && containsEventType(parserCandidates, parserPrimaryHint) {
			return parserPrimaryHint, model.SourceParser, true
		}
		return parserCandidates[0], model.SourceParser, true
	}

	return "", "", false
}

func containsEventType(types []model.EventType, target model.EventType) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

func missingRequiredFields(descriptor *model.EventDescriptor, data map[string]any) []string {
	var missing []string
	for _, f := range descriptor.RequiredFields {
		if v, ok := data[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

func unresolvedFields(descriptor *model.EventDescriptor, data map[string]any) []string {
	var unresolved []string
	for _, f := range descriptor.IdentifiableFields {
		if v, ok := data[f]; !ok || v == nil {
			unresolved = append(unresolved, f)
		}
	}
	return unresolved
}
