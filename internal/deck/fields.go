package deck

// FieldSpec describes one editable field of a template payload. The backend
// serves these per template; this catalogue is the client-side fallback used
// when the fields endpoint is unavailable or the type is not served.
type FieldSpec struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // text, array, array_object, object
	Required    bool        `json:"required"`
	Description string      `json:"description"`
	SubFields   []FieldSpec `json:"sub_fields,omitempty"`
}

var fieldCatalog = map[TemplateType][]FieldSpec{
	TemplateMessageOnly: {
		{Name: "main_message", Type: "text", Required: true, Description: "Key message"},
		{Name: "supporting_points", Type: "array", Required: true, Description: "Supporting evidence"},
		{Name: "call_to_action", Type: "text", Required: false, Description: "Next action"},
	},
	TemplateAsIsToBe: {
		{Name: "as_is_title", Type: "text", Required: true, Description: "Current state title"},
		{Name: "as_is_points", Type: "array", Required: true, Description: "Current state points"},
		{Name: "to_be_title", Type: "text", Required: true, Description: "Target state title"},
		{Name: "to_be_points", Type: "array", Required: true, Description: "Target state points"},
		{Name: "transition_method", Type: "text", Required: false, Description: "How to get there"},
	},
	TemplateCaseBox: {
		{Name: "cases", Type: "array_object", Required: true, Description: "Cases", SubFields: []FieldSpec{
			{Name: "title", Type: "text"},
			{Name: "description", Type: "text"},
			{Name: "pros", Type: "array"},
			{Name: "cons", Type: "array"},
			{Name: "recommendation", Type: "text"},
		}},
	},
	TemplateNodeMap: {
		{Name: "central_concept", Type: "text", Required: true, Description: "Central concept"},
		{Name: "primary_nodes", Type: "array", Required: true, Description: "Primary nodes"},
		{Name: "connections", Type: "array_object", Required: false, Description: "Connections", SubFields: []FieldSpec{
			{Name: "from", Type: "text"},
			{Name: "to", Type: "text"},
			{Name: "relationship", Type: "text"},
		}},
	},
	TemplateStepFlow: {
		{Name: "steps", Type: "array_object", Required: true, Description: "Steps", SubFields: []FieldSpec{
			{Name: "order", Type: "number"},
			{Name: "title", Type: "text"},
			{Name: "description", Type: "text"},
			{Name: "deliverables", Type: "array"},
			{Name: "timeline", Type: "text"},
		}},
	},
	TemplateChartInsight: {
		{Name: "chart_title", Type: "text", Required: true, Description: "Chart title"},
		{Name: "chart_type", Type: "text", Required: true, Description: "Chart type"},
		{Name: "key_insights", Type: "array", Required: true, Description: "Key insights"},
		{Name: "data_source", Type: "text", Required: false, Description: "Data source"},
	},
}

// FieldsFor returns the editable field specs for a template type. Unknown
// types get nil (edited as an open record).
func FieldsFor(t TemplateType) []FieldSpec {
	return fieldCatalog[t]
}
