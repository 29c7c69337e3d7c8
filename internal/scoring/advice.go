package scoring

import (
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
)

const (
	// NoSingleCauseReason is the reason given when no variable is out of range on its own
	NoSingleCauseReason = "Unusual pattern detected (no single variable outside safe range)"
	// AllClearSuggestion is the suggestion given when no rule fired
	AllClearSuggestion = "✅ All values are within acceptable limits. Continue routine monitoring."
)

// Reason lists the variables outside their safe range
func Reason(r entities.Readings) string {
	matched := ReasonRules.AllMatches(r)
	if len(matched) == 0 {
		return NoSingleCauseReason
	}
	parts := make([]string, len(matched))
	for i, rule := range matched {
		parts[i] = rule.Message
	}
	return strings.Join(parts, "; ")
}

// SuggestionRules returns the rules that make up the suggestion for r, in output order
func SuggestionRules(r entities.Readings) []Rule {
	var fired []Rule
	if rule, ok := SevereRules.FirstMatch(r); ok {
		fired = append(fired, rule)
	} else if rule, ok := SimpleRules.FirstMatch(r); ok {
		fired = append(fired, rule)
	}
	for _, group := range TipGroups {
		if rule, ok := group.FirstMatch(r); ok {
			fired = append(fired, rule)
		}
	}
	return fired
}

// Suggest builds the remediation advice for r
func Suggest(r entities.Readings) string {
	fired := SuggestionRules(r)
	if len(fired) == 0 {
		return AllClearSuggestion
	}
	parts := make([]string, len(fired))
	for i, rule := range fired {
		parts[i] = rule.Message
	}
	return strings.Join(parts, " ")
}

// Explain returns the reason and the suggestion for r. It does not depend on the model.
func Explain(r entities.Readings) (reason, suggestion string) {
	return Reason(r), Suggest(r)
}
