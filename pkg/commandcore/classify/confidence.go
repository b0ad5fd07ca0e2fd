package classify

import (
	"github.com/limos-platform/commandcore/pkg/commandcore/catalog"
	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

const (
	baseConfidenceKeyword = 0.7
	baseConfidenceParser  = 0.6

	perKeywordBonus    = 0.05
	maxKeywordBonus    = 0.2
	maxCompletionBonus = 0.1

	minConfidenceDefault = 0.5
)

// score computes a primary classification's confidence per spec §4.3 step
// 7: a base score by source, a per-matched-keyword bonus, a data
// completeness bonus, maxed against the parser's own reported confidence,
// then clamped to [0, 1].
func score(source model.Source, matchedKeywords int, completeness float64, parserConfidence float64) float64 {
	var base float64
	switch source {
	case model.SourceKeyword, model.SourceMerged:
		base = baseConfidenceKeyword
	default:
		base = baseConfidenceParser
	}

	keywordBonus := float64(matchedKeywords) * perKeywordBonus
	if keywordBonus > maxKeywordBonus {
		keywordBonus = maxKeywordBonus
	}

	completionBonus := completeness * maxCompletionBonus
	if completionBonus > maxCompletionBonus {
		completionBonus = maxCompletionBonus
	}

	computed := base + keywordBonus + completionBonus
	if parserConfidence > computed {
		computed = parserConfidence
	}

	return clamp01(computed)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// completenessRatio returns the fraction of descriptor's identifiable
// fields that are present and non-nil in data.
func completenessRatio(descriptor *model.EventDescriptor, data map[string]any) float64 {
	if len(descriptor.IdentifiableFields) == 0 {
		return 0
	}
	populated := 0
	for _, f := range descriptor.IdentifiableFields {
		if v, ok := data[f]; ok && v != nil {
			populated++
		}
	}
	return float64(populated) / float64(len(descriptor.IdentifiableFields))
}

// matchedKeywordCount reports how many of descriptor's keywords occur in
// utterance, reusing the same whole-phrase matching rule the catalog uses
// for candidate ranking.
func matchedKeywordCount(descriptor *model.EventDescriptor, utterance string) int {
	count := 0
	for _, kw := range descriptor.Keywords {
		if catalog.MatchesKeyword(utterance, kw) {
			count++
		}
	}
	return count
}
