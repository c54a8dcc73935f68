// Package deck models the presentation domain: the six slide template types,
// their content payload shapes, and slide status labels shared by the API
// layer and the authoring workflow.
package deck

// TemplateType identifies one of the six fixed slide layouts.
type TemplateType string

const (
	TemplateMessageOnly  TemplateType = "message_only"
	TemplateAsIsToBe     TemplateType = "asis_tobe"
	TemplateCaseBox      TemplateType = "case_box"
	TemplateNodeMap      TemplateType = "node_map"
	TemplateStepFlow     TemplateType = "step_flow"
	TemplateChartInsight TemplateType = "chart_insight"
)

// Slide status labels. Set by the last action taken: AI generation sets
// StatusAIGenerated, any manual field edit sets StatusUserCompleted.
const (
	StatusDraft         = "draft"
	StatusAIGenerated   = "ai_generated"
	StatusUserCompleted = "user_completed"
)

// KnownTemplates returns the six recognized template types in display order.
func KnownTemplates() []TemplateType {
	return []TemplateType{
		TemplateMessageOnly,
		TemplateAsIsToBe,
		TemplateCaseBox,
		TemplateNodeMap,
		TemplateStepFlow,
		TemplateChartInsight,
	}
}

// IsKnownTemplate reports whether t is one of the six recognized types.
func IsKnownTemplate(t TemplateType) bool {
	switch t {
	case TemplateMessageOnly, TemplateAsIsToBe, TemplateCaseBox,
		TemplateNodeMap, TemplateStepFlow, TemplateChartInsight:
		return true
	}
	return false
}

// TemplateMeta describes a template for selection UIs.
type TemplateMeta struct {
	Name        string
	Description string
	BestFor     []string
}

var templateCatalog = map[TemplateType]TemplateMeta{
	TemplateMessageOnly: {
		Name:        "Message Only",
		Description: "A single key message with minimal visuals. Best for high-impact statements.",
		BestFor:     []string{"conclusion slides", "key takeaways", "summaries"},
	},
	TemplateAsIsToBe: {
		Name:        "As-Is / To-Be",
		Description: "Side-by-side comparison of the current state and the target state.",
		BestFor:     []string{"problem definition", "improvement plans", "change management"},
	},
	TemplateCaseBox: {
		Name:        "Case Box",
		Description: "Multiple cases or options laid out as boxes for comparison.",
		BestFor:     []string{"option comparison", "case studies", "alternatives"},
	},
	TemplateNodeMap: {
		Name:        "Node Map",
		Description: "Nodes and relationships between them. Stakeholders, processes, concepts.",
		BestFor:     []string{"relationship diagrams", "org structures", "concept maps"},
	},
	TemplateStepFlow: {
		Name:        "Step Flow",
		Description: "Ordered steps of a process or plan. Roadmaps and execution plans.",
		BestFor:     []string{"process walkthroughs", "execution plans", "workflows"},
	},
	TemplateChartInsight: {
		Name:        "Chart & Insight",
		Description: "A chart or graph paired with the insights it supports.",
		BestFor:     []string{"data analysis", "performance reports", "trend analysis"},
	},
}

// MetaFor returns display metadata for a template type. The second result is
// false for unrecognized types.
func MetaFor(t TemplateType) (TemplateMeta, bool) {
	m, ok := templateCatalog[t]
	return m, ok
}
