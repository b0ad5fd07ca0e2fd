// Package catalog implements the Event Catalog (spec §4.1): a read-only,
// process-wide table of event descriptors built once at startup and never
// mutated, exposing descriptor lookup and keyword-candidate search to the
// Classifier.
package catalog

import (
	"sort"
	"strings"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

// Catalog is the immutable, startup-built registry of event descriptors.
type Catalog struct {
	descriptors []*model.EventDescriptor
	byType      map[model.EventType]*model.EventDescriptor
}

// New builds a Catalog from descriptors, in the order given. Declaration
// order is significant: it is the tiebreaker candidates_for_keywords uses
// and encodes domain priority (fuel keywords outrank generic purchase
// keywords). New does not validate descriptors; call Validate separately
// before trusting a catalog built from external input.
func New(descriptors []*model.EventDescriptor) *Catalog {
	byType := make(map[model.EventType]*model.EventDescriptor, len(descriptors))
	for _, d := range descriptors {
		byType[d.EventType] = d
	}
	return &Catalog{descriptors: descriptors, byType: byType}
}

// DescriptorFor returns the descriptor for eventType, or nil if unknown.
func (c *Catalog) DescriptorFor(eventType model.EventType) *model.EventDescriptor {
	return c.byType[eventType]
}

// All returns every descriptor, in declaration order.
func (c *Catalog) All() []*model.EventDescriptor {
	return c.descriptors
}

// candidate is an intermediate match used to rank keyword candidates before
// reducing to the ordered event-type list candidates_for_keywords returns.
type candidate struct {
	descriptor        *model.EventDescriptor
	declarationIndex  int
	matchCount        int
	longestMatchedLen int
}

// CandidatesForKeywords returns every descriptor whose keywords appear in
// utterance, ordered by (number of matched keywords desc, length of longest
// matched keyword desc, declared order asc), per spec §4.1.
func (c *Catalog) CandidatesForKeywords(utterance string) []model.EventType {
	lower := strings.ToLower(utterance)

	var candidates []candidate
	for i, d := range c.descriptors {
		matchCount := 0
		longest := 0
		for _, kw := range d.Keywords {
			if matchesWholePhrase(lower, strings.ToLower(kw)) {
				matchCount++
				if len(kw) > longest {
					longest = len(kw)
				}
			}
		}
		if matchCount > 0 {
			candidates = append(candidates, candidate{
				descriptor:        d,
				declarationIndex:  i,
				matchCount:        matchCount,
				longestMatchedLen: longest,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.matchCount != b.matchCount {
			return a.matchCount > b.matchCount
		}
		if a.longestMatchedLen != b.longestMatchedLen {
			return a.longestMatchedLen > b.longestMatchedLen
		}
		return a.declarationIndex < b.declarationIndex
	})

	types := make([]model.EventType, len(candidates))
	for i, cand := range candidates {
		types[i] = cand.descriptor.EventType
	}
	return types
}

// MatchesKeyword reports whether keyword occurs in utterance as a
// case-insensitive whole-phrase match, the same rule CandidatesForKeywords
// uses. Exported so other packages (e.g. classify's confidence scoring) can
// reuse the exact matching semantics instead of re-implementing them.
func MatchesKeyword(utterance, keyword string) bool {
	return matchesWholePhrase(strings.ToLower(utterance), strings.ToLower(keyword))
}

// matchesWholePhrase reports whether phrase occurs in text as a whole-phrase
// match: bounded by non-letter/digit characters (or string edges) on both
// sides, so "gas" does not match inside "gasoline".
func matchesWholePhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		absIdx := start + idx
		before := absIdx == 0 || !isWordChar(rune(text[absIdx-1]))
		afterIdx := absIdx + len(phrase)
		after := afterIdx >= len(text) || !isWordChar(rune(text[afterIdx]))
		if before && after {
			return true
		}
		start = absIdx + 1
		if start >= len(text) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
