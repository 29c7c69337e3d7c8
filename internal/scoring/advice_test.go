package scoring

import (
	"strings"
	"testing"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/stretchr/testify/assert"
)

func readings(temp, oxy, sal float64, foam entities.Foam) entities.Readings {
	return entities.Readings{Temperature: temp, Oxygen: oxy, Salinity: sal, Foam: foam}
}

func ruleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		r    entities.Readings
		want string
	}{
		{"temperature and oxygen", readings(25, 3, 30, entities.FoamNone), "High temperature; Low dissolved oxygen"},
		{"all three", readings(25, 3, 40, entities.FoamNone), "High temperature; Low dissolved oxygen; Salinity out of range"},
		{"low salinity only", readings(15, 8, 27.9, entities.FoamNone), "Salinity out of range"},
		{"salinity bounds are safe", readings(15, 8, 28, entities.FoamNone), NoSingleCauseReason},
		{"upper salinity bound is safe", readings(15, 8, 35, entities.FoamNone), NoSingleCauseReason},
		{"temperature bound is safe", readings(20, 5, 30, entities.FoamHeavy), NoSingleCauseReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.r))
		})
	}
}

func TestSuggestionRules(t *testing.T) {
	tests := []struct {
		name string
		r    entities.Readings
		want []string
	}{
		{
			name: "foam with low oxygen hits algal bloom before flooding and unstable pond",
			r:    readings(29, 3, 26, entities.FoamHeavy),
			want: []string{"algal-bloom", "cooling-tip", "aeration-tip", "low-salinity-tip"},
		},
		{
			name: "same readings without foam fall through to flooding",
			r:    readings(29.5, 3, 26, entities.FoamNone),
			want: []string{"freshwater-flooding", "cooling-tip", "aeration-tip", "low-salinity-tip"},
		},
		{
			name: "temperature exactly 28 skips the strict greater-than rules",
			r:    readings(28, 3.9, 37, entities.FoamNone),
			want: []string{"high-evaporation", "cooling-tip", "aeration-tip", "high-salinity-tip"},
		},
		{
			name: "just above 28 triggers evaporation",
			r:    readings(28.1, 3.9, 37, entities.FoamNone),
			want: []string{"evaporation-eutrophication", "cooling-tip", "aeration-tip", "high-salinity-tip"},
		},
		{
			name: "oxygen exactly 4 is not low for the compound rules",
			r:    readings(30, 4, 30, entities.FoamLight),
			want: []string{"cooling-tip", "aeration-tip"},
		},
		{
			name: "oxygen below 4 with foam is an algal bloom",
			r:    readings(30, 3.99, 30, entities.FoamLight),
			want: []string{"algal-bloom", "cooling-tip", "aeration-tip"},
		},
		{
			name: "chemical contamination",
			r:    readings(20, 4.5, 36, entities.FoamLight),
			want: []string{"chemical-contamination", "aeration-tip", "high-salinity-tip"},
		},
		{
			name: "thermal stratification without foam",
			r:    readings(30, 3, 30, entities.FoamNone),
			want: []string{"thermal-stratification", "cooling-tip", "aeration-tip"},
		},
		{
			name: "runoff",
			r:    readings(18, 4.5, 20, entities.FoamNone),
			want: []string{"freshwater-runoff", "aeration-tip", "low-salinity-tip"},
		},
		{
			name: "warm fresh water",
			r:    readings(26, 7, 20, entities.FoamNone),
			want: []string{"warm-fresh-water", "cooling-tip", "low-salinity-tip"},
		},
		{
			name: "organic pollution in cool water",
			r:    readings(15, 3, 30, entities.FoamLight),
			want: []string{"organic-pollution", "aeration-tip"},
		},
		{
			name: "only the cooling tip",
			r:    readings(21, 6, 30, entities.FoamNone),
			want: []string{"cooling-tip"},
		},
		{
			name: "nothing fires",
			r:    readings(10, 10, 30, entities.FoamNone),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleNames(SuggestionRules(tt.r)))
		})
	}
}

func TestSuggestJoinsFragmentsInOrder(t *testing.T) {
	got := Suggest(readings(29, 3, 26, entities.FoamHeavy))

	want := strings.Join([]string{
		SevereRules[1].Message,
		TipGroups[0][0].Message,
		TipGroups[1][0].Message,
		TipGroups[2][0].Message,
	}, " ")
	assert.Equal(t, want, got)

	for _, rule := range SimpleRules {
		assert.NotContains(t, got, rule.Message)
	}
	for i, rule := range SevereRules {
		if i != 1 {
			assert.NotContains(t, got, rule.Message)
		}
	}
}

func TestSuggestAllClear(t *testing.T) {
	got := Suggest(readings(10, 10, 30, entities.FoamNone))
	assert.Equal(t, "✅ All values are within acceptable limits. Continue routine monitoring.", got)
}

func TestExplainIsDeterministic(t *testing.T) {
	r := readings(27.5, 3.2, 36.5, entities.FoamLight)

	reason1, suggestion1 := Explain(r)
	reason2, suggestion2 := Explain(r)

	assert.Equal(t, reason1, reason2)
	assert.Equal(t, suggestion1, suggestion2)
}

// Every input matching unstable-pond also matches freshwater-flooding, which
// comes earlier in the cascade, so unstable-pond never contributes.
func TestUnstablePondIsShadowedByFlooding(t *testing.T) {
	unstable := SevereRules[4]
	for temp := 29.0; temp <= 40; temp += 0.5 {
		for oxy := 0.0; oxy < 3.5; oxy += 0.25 {
			for sal := 0.0; sal < 27; sal += 1.5 {
				for _, foam := range []entities.Foam{entities.FoamNone, entities.FoamLight, entities.FoamHeavy} {
					r := readings(temp, oxy, sal, foam)
					if !unstable.Applies(r) {
						continue
					}
					assert.NotContains(t, ruleNames(SuggestionRules(r)), unstable.Name)
				}
			}
		}
	}
}

func TestRuleSetFirstMatch(t *testing.T) {
	rules := RuleSet{
		{Name: "a", Applies: func(entities.Readings) bool { return false }},
		{Name: "b", Applies: func(entities.Readings) bool { return true }},
		{Name: "c", Applies: func(entities.Readings) bool { return true }},
	}

	rule, ok := rules.FirstMatch(entities.Readings{})
	assert.True(t, ok)
	assert.Equal(t, "b", rule.Name)

	_, ok = RuleSet{}.FirstMatch(entities.Readings{})
	assert.False(t, ok)

	assert.Equal(t, []string{"b", "c"}, ruleNames(rules.AllMatches(entities.Readings{})))
}
