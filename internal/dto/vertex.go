package dto

type VertexGenerateRequest struct {
	Model           string
	System          string
	UserMessage     string
	Temperature     *float32
	MaxOutputTokens *int32

	// ResponseMIMEType "application/json" asks the model for a JSON body
	// matching ResponseSchema.
	ResponseMIMEType string
	ResponseSchema   *VertexSchema
}

type VertexGenerateResponse struct {
	Text         string
	FinishReason string
	Raw          any
}

type VertexSchema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*VertexSchema
	Required    []string
	Items       *VertexSchema
}
