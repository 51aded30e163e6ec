package openapi

import "maps"

// NewComponents registers the error envelope and the paging parameters
// shared by the run, index, and prompt listings.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number, starting at 1", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page, capped by the server", Example: 20},
					"search":    {Type: "string", Description: "Case-insensitive substring match"},
					"sort":      {Type: "string", Description: "Comma-separated fields, - prefix for descending", Example: "-created_at"},
				},
			},
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":   errorResponse("Malformed or invalid request"),
			"Unauthorized": errorResponse("Missing or invalid bearer token"),
			"NotFound":     errorResponse("No such run, index, or prompt"),
			"Conflict":     errorResponse("A record with that name already exists"),
			"Unavailable":  errorResponse("Search or oracle backend unavailable"),
		},
	}
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content:     jsonContent(SchemaRef("Error")),
	}
}

func jsonContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{"application/json": {Schema: schema}}
}
