package scoring

import "github.com/abelzeko/aquahealth/internal/entities"

// Rule pairs a threshold predicate over raw readings with the text it contributes
type Rule struct {
	Name    string
	Applies func(r entities.Readings) bool
	Message string
}

// RuleSet is an ordered list of rules
type RuleSet []Rule

// FirstMatch returns the first rule that applies to r
func (rs RuleSet) FirstMatch(r entities.Readings) (Rule, bool) {
	for _, rule := range rs {
		if rule.Applies(r) {
			return rule, true
		}
	}
	return Rule{}, false
}

// AllMatches returns every rule that applies to r, in order
func (rs RuleSet) AllMatches(r entities.Readings) []Rule {
	var matched []Rule
	for _, rule := range rs {
		if rule.Applies(r) {
			matched = append(matched, rule)
		}
	}
	return matched
}

func hasFoam(r entities.Readings) bool {
	return r.Foam != entities.FoamNone
}

// ReasonRules explain which single variables are outside the safe range
var ReasonRules = RuleSet{
	{
		Name:    "high-temperature",
		Applies: func(r entities.Readings) bool { return r.Temperature > 20 },
		Message: "High temperature",
	},
	{
		Name:    "low-oxygen",
		Applies: func(r entities.Readings) bool { return r.Oxygen < 5 },
		Message: "Low dissolved oxygen",
	},
	{
		Name:    "salinity-range",
		Applies: func(r entities.Readings) bool { return r.Salinity < 28 || r.Salinity > 35 },
		Message: "Salinity out of range",
	},
}

// SevereRules are compound conditions checked first; the first match wins.
// The order is significant: earlier rules shadow later ones on overlapping inputs.
var SevereRules = RuleSet{
	{
		Name: "evaporation-eutrophication",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 28 && r.Oxygen < 4 && r.Salinity > 36
		},
		Message: "🔥 High temperature, low DO, and high salinity suggest severe evaporation or eutrophication. Immediate water exchange and aeration are recommended.",
	},
	{
		Name: "algal-bloom",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 27 && r.Oxygen < 4 && hasFoam(r)
		},
		Message: "🫧 Elevated temp, low DO, and foam may indicate algal bloom. Apply algaecide cautiously and increase aeration.",
	},
	{
		Name: "freshwater-flooding",
		Applies: func(r entities.Readings) bool {
			return r.Salinity < 27 && r.Oxygen < 4 && r.Temperature > 25
		},
		Message: "🌧️ Low salinity, high temp, and low DO hint at freshwater flooding or runoff. Verify recent rainfall and adjust pond management accordingly.",
	},
	{
		Name: "chemical-contamination",
		Applies: func(r entities.Readings) bool {
			return r.Salinity > 35 && r.Oxygen < 5 && hasFoam(r)
		},
		Message: "⚠️ High salinity with low DO and surface foam could mean chemical contamination. Test water quality and isolate affected ponds.",
	},
	{
		Name: "unstable-pond",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 29 && r.Oxygen < 3.5 && r.Salinity < 27
		},
		Message: "🌡️ Unstable pond conditions due to high heat, oxygen stress, and low salinity. Initiate emergency oxygenation and monitor closely.",
	},
}

// SimpleRules are only consulted when no severe rule matched; the first match wins
var SimpleRules = RuleSet{
	{
		Name: "thermal-stratification",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 28 && r.Oxygen < 4
		},
		Message: "⚠️ High temperature and low DO suggest thermal stratification. Increase aeration and consider mixing layers.",
	},
	{
		Name: "high-evaporation",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 26 && r.Salinity > 36
		},
		Message: "🔥 Warm, saline water may indicate high evaporation. Check for concentration of pollutants and consider water exchange.",
	},
	{
		Name: "freshwater-runoff",
		Applies: func(r entities.Readings) bool {
			return r.Salinity < 28 && r.Oxygen < 5
		},
		Message: "🧪 Low salinity and low DO might result from freshwater runoff. Check rainfall data and assess runoff impact.",
	},
	{
		Name: "warm-fresh-water",
		Applies: func(r entities.Readings) bool {
			return r.Temperature > 25 && r.Salinity < 28
		},
		Message: "🌧️ Warm, fresh water could stress fish. Watch for rainfall events and monitor feeding response.",
	},
	{
		Name: "organic-pollution",
		Applies: func(r entities.Readings) bool {
			return r.Oxygen < 4 && hasFoam(r)
		},
		Message: "🫧 Low DO with surface foam may indicate organic pollution or algal bloom. Test ammonia levels.",
	},
}

// TipGroups are always checked, after the cascade. Each group contributes at
// most one tip; rules inside a group are alternatives.
var TipGroups = []RuleSet{
	{
		{
			Name:    "cooling-tip",
			Applies: func(r entities.Readings) bool { return r.Temperature > 20 },
			Message: "🌡️ Consider shading ponds or increasing water exchange to reduce temperature.",
		},
	},
	{
		{
			Name:    "aeration-tip",
			Applies: func(r entities.Readings) bool { return r.Oxygen < 5 },
			Message: "💨 Increase aeration or reduce stocking density to improve dissolved oxygen levels.",
		},
	},
	{
		{
			Name:    "low-salinity-tip",
			Applies: func(r entities.Readings) bool { return r.Salinity < 28 },
			Message: "🚰 Check freshwater inflow or dilution sources. Adjust salinity via controlled salting.",
		},
		{
			Name:    "high-salinity-tip",
			Applies: func(r entities.Readings) bool { return r.Salinity > 35 },
			Message: "🌊 Dilute pond water or monitor evaporation rates; consider controlled flushing.",
		},
	},
}
