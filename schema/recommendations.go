package schema

// ImprovementLevel buckets a category score for picking improvement actions.
type ImprovementLevel string

// Improvement levels.
const (
	LevelLow    ImprovementLevel = "low"
	LevelMedium ImprovementLevel = "medium"
	LevelHigh   ImprovementLevel = "high"
)

// LevelFor returns the improvement level of a category score.
func LevelFor(score int) ImprovementLevel {
	switch {
	case score >= 80:
		return LevelHigh
	case score >= 70:
		return LevelMedium
	default:
		return LevelLow
	}
}

// improvementActions holds the built-in actions per category and level.
var improvementActions = map[string]map[ImprovementLevel][]string{
	FinancialCategory: {
		LevelLow: {
			"Review and optimize billing processes",
			"Implement revenue cycle management best practices",
			"Analyze payer mix and negotiate better rates",
			"Reduce operational inefficiencies",
			"Implement cost control measures",
		},
		LevelMedium: {
			"Fine-tune pricing strategies",
			"Optimize staff productivity",
			"Review vendor contracts and expenses",
			"Implement financial reporting automation",
		},
		LevelHigh: {
			"Maintain current financial performance",
			"Explore growth opportunities",
			"Consider expansion or new services",
		},
	},
	OperationalCategory: {
		LevelLow: {
			"Implement scheduling optimization software",
			"Provide staff training on efficiency best practices",
			"Review and streamline clinical workflows",
			"Implement patient flow optimization",
			"Upgrade documentation systems",
		},
		LevelMedium: {
			"Fine-tune scheduling algorithms",
			"Implement advanced analytics for capacity planning",
			"Optimize staff allocation and scheduling",
			"Enhance patient communication systems",
		},
		LevelHigh: {
			"Share best practices with other locations",
			"Mentor underperforming locations",
			"Lead pilot programs for new initiatives",
		},
	},
	PatientExperienceCategory: {
		LevelLow: {
			"Implement patient feedback system",
			"Provide customer service training for all staff",
			"Review and improve facility environment",
			"Implement patient communication protocols",
			"Address common patient complaints systematically",
		},
		LevelMedium: {
			"Enhance patient education programs",
			"Implement patient portal and digital services",
			"Optimize appointment scheduling experience",
			"Improve follow-up care processes",
		},
		LevelHigh: {
			"Become a patient experience center of excellence",
			"Share best practices across network",
			"Implement advanced patient engagement technologies",
		},
	},
	StaffingCategory: {
		LevelLow: {
			"Conduct comprehensive staff satisfaction survey",
			"Implement employee recognition programs",
			"Review compensation and benefits packages",
			"Provide professional development opportunities",
			"Improve management training and communication",
		},
		LevelMedium: {
			"Enhance career development pathways",
			"Implement flexible scheduling options",
			"Improve work-life balance initiatives",
			"Strengthen team building activities",
		},
		LevelHigh: {
			"Become an employer of choice in the region",
			"Implement advanced HR analytics",
			"Lead workforce development initiatives",
		},
	},
}

// ImprovementActions returns the built-in actions for a category at a level.
// Unknown categories (from a custom schema) yield nil.
func ImprovementActions(category string, level ImprovementLevel) []string {
	levels, ok := improvementActions[category]
	if !ok {
		return nil
	}
	actions := levels[level]
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}
