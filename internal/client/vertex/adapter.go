package vertex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
)

const serviceName = "vertex"

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// GenerateContent runs a single-turn prompt. Transport and model-side
// failures come back as *errs.ExternalServiceError.
func (a *Adapter) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	out := dto.VertexGenerateResponse{}

	modelName := req.Model
	if modelName == "" {
		modelName = a.model
	}
	if modelName == "" {
		return out, fmt.Errorf("vertex model is required")
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return out, fmt.Errorf("vertex generate request has no content")
	}

	model := a.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}
	if req.ResponseMIMEType != "" {
		model.ResponseMIMEType = req.ResponseMIMEType
	}
	if req.ResponseSchema != nil {
		model.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserMessage))
	if err != nil {
		return out, classify(ctx, err)
	}

	out.Raw = resp
	out.Text, out.FinishReason = parseContentResponse(resp)
	return out, nil
}

func classify(ctx context.Context, err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return errs.NewExternalServiceError(serviceName, "response blocked", false, err)
	}
	transient := errs.IsTransient(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		ctx.Err() != nil
	return errs.NewExternalServiceError(serviceName, "generate content failed", transient, err)
}

func parseContentResponse(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ""
	}

	var text strings.Builder
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text.WriteString(string(p))
			}
		}
	}

	return text.String(), candidate.FinishReason.String()
}

func toGenaiSchema(schema *dto.VertexSchema) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenaiType(schema.Type),
		Description: schema.Description,
		Enum:        schema.Enum,
		Required:    schema.Required,
	}

	if schema.Items != nil {
		out.Items = toGenaiSchema(schema.Items)
	}
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for key, value := range schema.Properties {
			out.Properties[key] = toGenaiSchema(value)
		}
	}

	return out
}

func toGenaiType(schemaType string) genai.Type {
	switch schemaType {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
