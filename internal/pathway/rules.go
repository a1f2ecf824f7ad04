package pathway

import "strings"

// CountryRule holds the per-country parameters of the Canadian Standard
// mapping. New countries are added here, not in the evaluation logic.
type CountryRule struct {
	MinimumTrainingMonths          int
	GPExamWaiver                   bool
	SpecialistApprovedJurisdiction bool
}

var countryRules = map[string]CountryRule{
	"IRELAND": {
		MinimumTrainingMonths:          12,
		GPExamWaiver:                   true,
		SpecialistApprovedJurisdiction: true,
	},
	"UNITED KINGDOM": {
		MinimumTrainingMonths:          12,
		GPExamWaiver:                   true,
		SpecialistApprovedJurisdiction: true,
	},
	"IRAN": {
		MinimumTrainingMonths: 18,
	},
	"INDIA": {
		MinimumTrainingMonths: 12,
	},
	"EGYPT": {
		MinimumTrainingMonths: 24,
	},
}

// Older profiles stored the bare "UK" key.
var countryAliases = map[string]string{
	"UK": "UNITED KINGDOM",
}

// SupportedCountries returns the canonical country keys in no particular order.
func SupportedCountries() []string {
	keys := make([]string, 0, len(countryRules))
	for key := range countryRules {
		keys = append(keys, key)
	}
	return keys
}

func ruleFor(country string) (string, CountryRule, bool) {
	key := strings.ToUpper(strings.TrimSpace(country))
	if canonical, ok := countryAliases[key]; ok {
		key = canonical
	}

	rule, ok := countryRules[key]
	return key, rule, ok
}
