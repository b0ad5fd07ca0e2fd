package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/limos-platform/commandcore/pkg/commandcore/model"
)

var (
	currencyRe       = regexp.MustCompile(`\$\s*([0-9]+(?:\.[0-9]+)?)|([0-9]+(?:\.[0-9]+)?)\s*dollars`)
	odometerRe       = regexp.MustCompile(`(?i)odometer\s+([0-9]+(?:\.[0-9]+)?)`)
	isoDateRe        = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	perUnitGenericRe = regexp.MustCompile(`(?i)per\s+unit\s*(?:is\s*)?\$?([0-9]+(?:\.[0-9]+)?)`)
)

// unitQuantityPattern returns a regex matching "<number> <unit>(s)?" for a
// specific unit word (e.g. "gallon", "mile").
func unitQuantityPattern(unit string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*` + regexp.QuoteMeta(unit) + `s?\b`)
}

// unitPricePattern returns a regex matching "$<number>/<unit>(s)?" or
// "<number> per <unit>(s)?" for a specific unit word (e.g. "$4.33/gallon").
func unitPricePattern(unit string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\$?([0-9]+(?:\.[0-9]+)?)\s*(?:/|per)\s*` + regexp.QuoteMeta(unit) + `s?\b`)
}

// ExtractFromUtterance applies descriptor's extract patterns against the raw
// utterance text, returning whatever fields it can lift (spec §4.3 step 4:
// "numbers with units, dates, currency amounts").
func ExtractFromUtterance(descriptor *model.EventDescriptor, utterance string) map[string]any {
	out := make(map[string]any)
	for _, pattern := range descriptor.ExtractPatterns {
		value, ok := extractOne(pattern, utterance)
		if ok {
			out[pattern.Field] = value
		}
	}
	return out
}

func extractOne(pattern model.ExtractPattern, utterance string) (any, bool) {
	switch pattern.Kind {
	case model.ExtractCurrency:
		m := currencyRe.FindStringSubmatch(utterance)
		if m == nil {
			return nil, false
		}
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return v, true

	case model.ExtractUnitQuantity:
		if pattern.Unit == "" {
			return nil, false
		}
		m := unitQuantityPattern(pattern.Unit).FindStringSubmatch(utterance)
		if m == nil {
			return nil, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return v, true

	case model.ExtractUnitPrice:
		if pattern.Unit != "" {
			if m := unitPricePattern(pattern.Unit).FindStringSubmatch(utterance); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					return v, true
				}
			}
		}
		if m := perUnitGenericRe.FindStringSubmatch(utterance); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
		return nil, false

	case model.ExtractOdometer:
		m := odometerRe.FindStringSubmatch(utterance)
		if m == nil {
			return nil, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return v, true

	case model.ExtractDate:
		return extractDate(utterance)

	default:
		return nil, false
	}
}

func extractDate(utterance string) (any, bool) {
	if m := isoDateRe.FindStringSubmatch(utterance); m != nil {
		return m[1], true
	}
	lower := strings.ToLower(utterance)
	now := time.Now()
	switch {
	case strings.Contains(lower, "today"):
		return now.Format("2006-01-02"), true
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1).Format("2006-01-02"), true
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	default:
		return nil, false
	}
}
