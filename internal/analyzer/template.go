package analyzer

// TemplateKey identifies which message template the generator should resolve.
type TemplateKey string

const (
	TemplateObjectionPrice      TemplateKey = "objection_price"
	TemplateTechnicalQuestions  TemplateKey = "technical_questions"
	TemplateHighEngagement      TemplateKey = "high_engagement"
	TemplateGenericReengagement TemplateKey = "generic_reengagement"
)

// templateRule pairs a predicate with the key it selects. Rules are evaluated
// top to bottom and the first match wins; the order is a behavioral contract.
type templateRule struct {
	matches func(Signals) bool
	key     TemplateKey
}

var templateRules = []templateRule{
	{
		matches: func(s Signals) bool { return s.HasObjection(ObjectionPrice) },
		key:     TemplateObjectionPrice,
	},
	{
		matches: func(s Signals) bool {
			return len(s.Questions) > 0 && containsString(s.Topics, "technical")
		},
		key: TemplateTechnicalQuestions,
	},
	{
		matches: func(s Signals) bool { return s.InterestLevel >= 7 },
		key:     TemplateHighEngagement,
	},
}

// SelectTemplateKey picks the template for the given signals. Falls back to
// the generic re-engagement template when no rule matches.
func SelectTemplateKey(signals Signals) TemplateKey {
	for _, rule := range templateRules {
		if rule.matches(signals) {
			return rule.key
		}
	}
	return TemplateGenericReengagement
}
