package openapi

import "maps"

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// NewComponents creates Components with the shared error schema, pagination
// schema, and the error responses every handler can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageMeta": {
				Type: "object",
				Properties: map[string]*Schema{
					"total":       {Type: "integer", Description: "Total matching records"},
					"page":        {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size":   {Type: "integer", Description: "Results per page", Example: 20},
					"total_pages": {Type: "integer", Description: "Number of pages"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":    errorResponse("Invalid request"),
			"BadGateway":    errorResponse("Classifier unavailable or returned an unusable result"),
			"InternalError": errorResponse("Unexpected server error"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
