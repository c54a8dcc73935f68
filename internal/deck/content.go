package deck

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// UserNeededMarker is the token the backend embeds in generated field values
// that still require manual input.
const UserNeededMarker = "USER_NEEDED"

// MessageOnly is the payload shape for the message_only template.
type MessageOnly struct {
	MainMessage      string   `json:"main_message"`
	SupportingPoints []string `json:"supporting_points"`
	CallToAction     string   `json:"call_to_action"`
}

// AsIsToBe is the payload shape for the asis_tobe template.
type AsIsToBe struct {
	AsIsTitle        string   `json:"as_is_title"`
	AsIsPoints       []string `json:"as_is_points"`
	ToBeTitle        string   `json:"to_be_title"`
	ToBePoints       []string `json:"to_be_points"`
	TransitionMethod string   `json:"transition_method"`
}

// Case is one entry in a case_box payload.
type Case struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Recommendation string   `json:"recommendation"`
}

// CaseBox is the payload shape for the case_box template.
type CaseBox struct {
	Cases []Case `json:"cases"`
}

// Connection is one edge in a node_map payload.
type Connection struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// NodeMap is the payload shape for the node_map template.
type NodeMap struct {
	CentralConcept string       `json:"central_concept"`
	PrimaryNodes   []string     `json:"primary_nodes"`
	Connections    []Connection `json:"connections"`
}

// Step is one entry in a step_flow payload.
type Step struct {
	Order        int      `json:"order"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Deliverables []string `json:"deliverables"`
	Timeline     string   `json:"timeline"`
}

// StepFlow is the payload shape for the step_flow template.
type StepFlow struct {
	Steps []Step `json:"steps"`
}

// ChartInsight is the payload shape for the chart_insight template.
type ChartInsight struct {
	ChartTitle  string   `json:"chart_title"`
	ChartType   string   `json:"chart_type"`
	KeyInsights []string `json:"key_insights"`
	DataSource  string   `json:"data_source"`
}

// Content is a slide's content payload as a tagged union keyed by template
// type. The backend stores payloads as open JSON objects; Fields always holds
// the raw record so unknown keys and shape mismatches round-trip unchanged,
// while exactly one typed variant is populated when the payload matches its
// template's shape. Unknown or mismatched payloads fall back to generic
// rendering over Fields.
type Content struct {
	Template TemplateType
	Fields   map[string]any

	MessageOnly  *MessageOnly
	AsIsToBe     *AsIsToBe
	CaseBox      *CaseBox
	NodeMap      *NodeMap
	StepFlow     *StepFlow
	ChartInsight *ChartInsight
}

// DecodeContent interprets a raw payload under the given template type.
// Payloads that do not match the template's shape are tolerated: the typed
// variant stays nil and only Fields is populated.
func DecodeContent(t TemplateType, payload map[string]any) Content {
	c := Content{Template: t, Fields: payload}
	if len(payload) == 0 {
		return c
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return c
	}

	switch t {
	case TemplateMessageOnly:
		var v MessageOnly
		if json.Unmarshal(raw, &v) == nil {
			c.MessageOnly = &v
		}
	case TemplateAsIsToBe:
		var v AsIsToBe
		if json.Unmarshal(raw, &v) == nil {
			c.AsIsToBe = &v
		}
	case TemplateCaseBox:
		var v CaseBox
		if json.Unmarshal(raw, &v) == nil {
			c.CaseBox = &v
		}
	case TemplateNodeMap:
		var v NodeMap
		if json.Unmarshal(raw, &v) == nil {
			c.NodeMap = &v
		}
	case TemplateStepFlow:
		var v StepFlow
		if json.Unmarshal(raw, &v) == nil {
			c.StepFlow = &v
		}
	case TemplateChartInsight:
		var v ChartInsight
		if json.Unmarshal(raw, &v) == nil {
			c.ChartInsight = &v
		}
	}

	return c
}

// IsEmpty reports whether the payload carries no fields at all.
func (c Content) IsEmpty() bool {
	return len(c.Fields) == 0
}

// Set updates a single field in the payload and re-derives the typed variant.
func (c Content) Set(field string, value any) Content {
	fields := make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		fields[k] = v
	}
	fields[field] = value
	return DecodeContent(c.Template, fields)
}

// Payload returns the raw record for transmission to the backend.
func (c Content) Payload() map[string]any {
	return c.Fields
}

// GenericView is the fallback rendering for payloads outside the six known
// shapes: a title, an optional sub-message, and a flat bullet list.
type GenericView struct {
	Title      string
	SubMessage string
	Bullets    []string
}

// Generic flattens the payload into the fallback view. Field order is
// deterministic (sorted keys) so rendering is stable.
func (c Content) Generic() GenericView {
	var view GenericView

	keys := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := c.Fields[k].(type) {
		case string:
			switch {
			case view.Title == "" && (k == "title" || k == "main_message" || k == "head_message"):
				view.Title = v
			case view.SubMessage == "" && (k == "sub_message" || k == "caption"):
				view.SubMessage = v
			default:
				view.Bullets = append(view.Bullets, fmt.Sprintf("%s: %s", k, v))
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					view.Bullets = append(view.Bullets, s)
				}
			}
		}
	}

	if view.Title == "" {
		// Fall back to the first string bullet as a title.
		if len(view.Bullets) > 0 {
			view.Title = view.Bullets[0]
			view.Bullets = view.Bullets[1:]
		}
	}

	return view
}

// Summary produces a short one-line digest of the payload for preview lists,
// skipping fields still marked USER_NEEDED. Empty payloads yield "".
func (c Content) Summary() string {
	keys := make([]string, 0, len(c.Fields))
	for k := range c.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		if len(parts) >= 2 {
			break
		}
		switch v := c.Fields[k].(type) {
		case string:
			if v == "" || strings.Contains(v, UserNeededMarker) {
				continue
			}
			parts = append(parts, truncate(v, 30))
		case []any:
			if len(v) == 0 {
				continue
			}
			first, ok := v[0].(string)
			if !ok || strings.Contains(first, UserNeededMarker) {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s and %d more", truncate(first, 20), len(v)))
		}
	}

	return strings.Join(parts, " | ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
