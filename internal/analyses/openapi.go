package analyses

import "github.com/JaimeStill/monitor/pkg/openapi"

type spec struct {
	Analyze *openapi.Operation
	History *openapi.Operation
	Summary *openapi.Operation
	List    *openapi.Operation
	Find    *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec documents the analysis endpoints.
var Spec = spec{
	Analyze: &openapi.Operation{
		Summary:     "Analyze an action against a guideline",
		Description: "Returns the stored answer for the pair when one exists, otherwise classifies it and stores the result.",
		RequestBody: openapi.RequestBodyJSON("AnalysisRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis result", "AnalysisResponse"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseJSON("Request body too large", "Error"),
			502: openapi.ResponseRef("BadGateway"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	History: &openapi.Operation{
		Summary: "List stored analyses, newest first",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Stored analyses",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{
						Type:  "array",
						Items: openapi.SchemaRef("AnalysisResponse"),
					}},
				},
			},
			204: openapi.ResponseJSON("No analyses stored", ""),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Summary: &openapi.Operation{
		Summary: "Count stored analyses by result",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis counts", "AnalysesSummary"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	List: &openapi.Operation{
		Summary: "Page through stored analysis records",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Substring match on action or guideline", false),
			openapi.QueryParam("sort", "string", "Comma-separated fields, prefix with - for descending", false),
			openapi.QueryParam("result", "string", "Filter by result label", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of records", "AnalysisRecordPage"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Get a stored analysis record",
		Parameters: []*openapi.Parameter{
			{
				Name:     "id",
				In:       "path",
				Required: true,
				Schema:   &openapi.Schema{Type: "integer", Format: "int64"},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis record", "AnalysisRecord"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseJSON("Record not found", "Error"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"AnalysisRequest": {
			Type:     "object",
			Required: []string{"action", "guideline"},
			Properties: map[string]*openapi.Schema{
				"action":    {Type: "string", Description: "What was done", Example: "Closed the ticket after deploying the fix"},
				"guideline": {Type: "string", Description: "Rule the action is judged against", Example: "Tickets are closed once the fix is deployed"},
			},
		},
		"AnalysisResponse": {
			Type:     "object",
			Required: []string{"action", "guideline", "result", "confidence", "timestamp"},
			Properties: map[string]*openapi.Schema{
				"action":     {Type: "string"},
				"guideline":  {Type: "string"},
				"result":     {Type: "string", Enum: []any{"COMPLIES", "DEVIATES", "UNCLEAR"}},
				"confidence": {Type: "number", Description: "Top-label score rounded to two places", Example: 0.91},
				"timestamp":  {Type: "string", Format: "date-time"},
			},
		},
		"AnalysisRecord": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "integer", Format: "int64"},
				"action":     {Type: "string"},
				"guideline":  {Type: "string"},
				"result":     {Type: "string"},
				"confidence": {Type: "number"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"AnalysisRecordPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("AnalysisRecord")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"AnalysesSummary": {
			Type:     "object",
			Required: []string{"count"},
			Properties: map[string]*openapi.Schema{
				"count": {Type: "integer", Description: "Stored analyses"},
				"results_count": {
					Type:        "object",
					Description: "Counts keyed by result; null when nothing is stored",
				},
			},
		},
	},
}
