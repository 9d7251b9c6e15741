package classifier

import (
	"regexp"

	"github.com/civicpulse/civicpulse-api/models"
)

// rule is one keyword predicate with its fixed outcome. Rules are evaluated
// in table order and the first match wins; reordering a table changes
// behavior.
type rule struct {
	category   models.CategoryLabel
	pattern    *regexp.Regexp
	confidence float64
	rationale  string
}

// Table order: safety > infrastructure > environmental > traffic > urgency >
// question > positive-feedback > issue > suggestion. Patterns are matched
// against trimmed, lowercased input with word boundaries.

// onlineRules backs the simulated assistant path
var onlineRules = []rule{
	{
		category:   models.LabelSafetyIssue,
		pattern:    regexp.MustCompile(`\b(danger|dangerous|unsafe|hazard|accident|crime|theft|assault|fire|emergency)\b`),
		confidence: 0.92,
		rationale:  "The report describes a situation posing risk to people, which indicates a safety issue.",
	},
	{
		category:   models.LabelInfrastructure,
		pattern:    regexp.MustCompile(`\b(pothole|road|bridge|streetlight|street light|sidewalk|pavement|drain|drainage|pipe|leak|power|electricity)\b`),
		confidence: 0.88,
		rationale:  "The report references public works or utilities, which points to an infrastructure problem.",
	},
	{
		category:   models.LabelEnvironmental,
		pattern:    regexp.MustCompile(`\b(garbage|trash|waste|litter|pollution|sewage|smell|dump|dumping|tree|trees)\b`),
		confidence: 0.87,
		rationale:  "The report mentions waste or environmental conditions, suggesting an environmental concern.",
	},
	{
		category:   models.LabelTraffic,
		pattern:    regexp.MustCompile(`\b(traffic|signal|junction|parking|congestion|jam|speeding|vehicle|vehicles)\b`),
		confidence: 0.85,
		rationale:  "The report concerns vehicle movement or road usage, indicating a traffic issue.",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(urgent|urgently|immediately|asap|critical|serious)\b`),
		confidence: 0.75,
		rationale:  "The report uses urgent language but does not match a specific category.",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(how|what|when|where|why|who)\b|\?`),
		confidence: 0.70,
		rationale:  "The text appears to be a question rather than an issue report.",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(thank|thanks|great|good|excellent|appreciate)\b`),
		confidence: 0.72,
		rationale:  "The text reads as positive feedback rather than an issue report.",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(problem|issue|broken|damaged|not working|complaint|fault)\b`),
		confidence: 0.68,
		rationale:  "The text describes a general problem without a recognizable category.",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(suggest|suggestion|should|could|recommend|improve|improvement)\b`),
		confidence: 0.66,
		rationale:  "The text reads as a suggestion for improvement.",
	},
}

// offlineRules backs the dependency-free fallback path. Same input domain and
// rule order as the online table, deliberately different confidences and
// rationales so the two paths stay behaviorally distinct.
var offlineRules = []rule{
	{
		category:   models.LabelSafetyIssue,
		pattern:    regexp.MustCompile(`\b(danger|dangerous|unsafe|hazard|accident|crime|theft|assault|fire|emergency)\b`),
		confidence: 0.80,
		rationale:  "Matched safety keywords (offline rules).",
	},
	{
		category:   models.LabelInfrastructure,
		pattern:    regexp.MustCompile(`\b(pothole|road|bridge|streetlight|street light|sidewalk|pavement|drain|drainage|pipe|leak|power|electricity)\b`),
		confidence: 0.78,
		rationale:  "Matched infrastructure keywords (offline rules).",
	},
	{
		category:   models.LabelEnvironmental,
		pattern:    regexp.MustCompile(`\b(garbage|trash|waste|litter|pollution|sewage|smell|dump|dumping|tree|trees)\b`),
		confidence: 0.77,
		rationale:  "Matched environmental keywords (offline rules).",
	},
	{
		category:   models.LabelTraffic,
		pattern:    regexp.MustCompile(`\b(traffic|signal|junction|parking|congestion|jam|speeding|vehicle|vehicles)\b`),
		confidence: 0.76,
		rationale:  "Matched traffic keywords (offline rules).",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(urgent|urgently|immediately|asap|critical|serious)\b`),
		confidence: 0.65,
		rationale:  "Matched urgency keywords (offline rules).",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(how|what|when|where|why|who)\b|\?`),
		confidence: 0.62,
		rationale:  "Matched question keywords (offline rules).",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(thank|thanks|great|good|excellent|appreciate)\b`),
		confidence: 0.63,
		rationale:  "Matched positive feedback keywords (offline rules).",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(problem|issue|broken|damaged|not working|complaint|fault)\b`),
		confidence: 0.61,
		rationale:  "Matched generic issue keywords (offline rules).",
	},
	{
		category:   models.LabelOther,
		pattern:    regexp.MustCompile(`\b(suggest|suggestion|should|could|recommend|improve|improvement)\b`),
		confidence: 0.60,
		rationale:  "Matched suggestion keywords (offline rules).",
	},
}
