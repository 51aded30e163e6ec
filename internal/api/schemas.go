package api

import "github.com/JaimeStill/lawfinder/pkg/openapi"

func str(desc string) *openapi.Schema {
	return &openapi.Schema{Type: "string", Description: desc}
}

func strList(desc string) *openapi.Schema {
	return &openapi.Schema{Type: "array", Description: desc, Items: &openapi.Schema{Type: "string"}}
}

func list(ref string) *openapi.Schema {
	return &openapi.Schema{Type: "array", Items: openapi.SchemaRef(ref)}
}

var (
	riskLevels = []any{"LOW", "MODERATE", "HIGH", "CRITICAL"}
	stages     = []any{"rank", "align"}
)

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"DiscoverRequest": {
			Type:     "object",
			Required: []string{"feature_summary"},
			Properties: map[string]*openapi.Schema{
				"feature_summary": str("Free-text description of the product feature"),
				"regions":         strList("Jurisdictions of interest, e.g. Utah, EU"),
				"min_year":        {Type: "integer", Description: "Reject pages whose latest year is older; 0 disables", Default: 2023},
			},
		},
		"Source": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"url":          str("Page URL"),
				"title":        str("Page title"),
				"jurisdiction": str("Inferred jurisdiction"),
				"snippet":      str("Leading normalized text"),
			},
		},
		"DiscoverResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index_id": str("Identifier of the persisted chunk index"),
				"sources":  list("Source"),
			},
		},
		"AssessRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"law_agent_input": {
					Type:       "object",
					Properties: map[string]*openapi.Schema{"sources": list("Source")},
				},
				"user_policy": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"topic":           str("Feature topic"),
						"description":     str("Feature description"),
						"document_points": {Type: "array", Description: "Additional points; non-strings are stringified"},
					},
				},
				"use_external_oracle": {Type: "boolean", Description: "Overrides the configured alignment strategy"},
			},
		},
		"Alignment": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"regulation_id": str("Regulation identifier"),
				"obligation_id": str("Obligation identifier"),
				"title":         str("Obligation title"),
				"coverage":      {Type: "string", Enum: []any{"none", "partial", "sufficient"}},
				"severity":      {Type: "string", Enum: []any{"low", "medium", "high"}},
				"reason":        str("Short justification"),
			},
		},
		"Driver": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"issue":     str("Obligation title"),
				"severity":  str("Obligation severity"),
				"coverage":  str("Coverage state"),
				"rationale": str("Alignment reason"),
			},
		},
		"Citation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"label": str("Citation label"),
				"url":   str("Citation URL"),
			},
		},
		"RiskReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"run_id":               str("Short run identifier"),
				"regions":              strList("Catalog regions"),
				"regulations_hit":      strList("Regulation names"),
				"risk_score":           {Type: "integer", Description: "Score from 0 to 100"},
				"risk_level":           {Type: "string", Enum: riskLevels},
				"raw":                  {Type: "number", Description: "Weighted gap sum before normalization"},
				"why":                  list("Driver"),
				"obligations":          list("Alignment"),
				"audit_citations":      list("Citation"),
				"as_of":                {Type: "string", Format: "date-time"},
				"used_external_oracle": {Type: "boolean"},
			},
		},
		"AnalyzeCommand": {
			Type:     "object",
			Required: []string{"title", "description"},
			Properties: map[string]*openapi.Schema{
				"title":       str("Feature title"),
				"description": str("Feature description"),
				"regions":     strList("Jurisdictions; defaults to global"),
			},
		},
		"Analysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id": {Type: "string", Format: "uuid", Description: "Persisted run id; absent when saving failed"},
				"findings": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"regions_hit":     strList(""),
						"regulations_hit": strList(""),
						"key_obligations": strList(""),
						"citations":       strList(""),
						"evidence_urls":   strList(""),
					},
				},
				"score": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"value":     {Type: "integer"},
						"level":     {Type: "string", Enum: riskLevels},
						"rationale": str("Top drivers as bullet lines"),
					},
				},
				"raw": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"discovery": openapi.SchemaRef("DiscoverResult"),
						"risk":      openapi.SchemaRef("RiskReport"),
					},
				},
			},
		},
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"run_id":       str("Risk run identifier"),
				"run_time":     {Type: "string", Format: "date-time"},
				"feature_name": str(""),
				"description":  str(""),
				"index_id":     str(""),
				"risk_score":   {Type: "integer"},
				"risk_level":   {Type: "string", Enum: riskLevels},
				"rationale":    str(""),
				"regions":      strList("Linked region names"),
				"regulations":  strList("Linked regulation names"),
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "stage", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         str("Unique override name"),
				"stage":        {Type: "string", Enum: stages},
				"instructions": str("Replacement instructions; JSON keys must belong to the stage response"),
				"description":  str(""),
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         str(""),
				"stage":        {Type: "string", Enum: stages},
				"instructions": str(""),
				"description":  str(""),
				"active":       {Type: "boolean"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"StageView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":        {Type: "string", Enum: stages},
				"root":         str("Top-level key of the stage response"),
				"override":     str("Name of the active override, if any"),
				"instructions": str("Effective instructions"),
				"spec":         str("Response contract appended to the instructions"),
			},
		},
	}
}
