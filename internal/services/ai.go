package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/pkg/helpers"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

const (
	aiServiceName = "vertex"
	jsonMIMEType  = "application/json"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

// aiService wraps the three narrative prompts. Each returns a decoded value
// whose required keys were present with the expected JSON types.
type aiService struct {
	vertex vertexClient
}

func NewAIService(vertex vertexClient) *aiService {
	return &aiService{vertex: vertex}
}

func (s *aiService) CompareUsers(ctx context.Context, req dto.ComparisonRequest) (dto.ComparisonInsight, error) {
	var out dto.ComparisonInsight
	err := s.generate(ctx, "compare_users", vertexCall{
		system:      comparisonPrompt,
		payload:     req,
		schema:      comparisonSchema(),
		temperature: 0.7,
	}, &out)
	return out, err
}

func (s *aiService) DreamNarrative(ctx context.Context, req dto.RoadmapNarrativeRequest) (dto.RoadmapNarrative, error) {
	var out dto.RoadmapNarrative
	err := s.generate(ctx, "dream_roadmap", vertexCall{
		system:      roadmapPrompt,
		payload:     req,
		schema:      roadmapSchema(),
		temperature: 0.8,
	}, &out)
	return out, err
}

func (s *aiService) IncomeGrowth(ctx context.Context, req dto.IncomeGrowthRequest) (*models.IncomeGrowthReport, error) {
	var out models.IncomeGrowthReport
	if err := s.generate(ctx, "income_growth", vertexCall{
		system:      incomeGrowthPrompt,
		payload:     req,
		schema:      incomeGrowthSchema(),
		temperature: 0.7,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *aiService) OpportunityNarrative(ctx context.Context, req dto.OpportunityNarrativeRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := s.generate(ctx, "opportunity_cost", vertexCall{
		system:      opportunityPrompt,
		payload:     req,
		schema:      opportunitySchema(),
		temperature: 0.8,
	}, &out)
	return out.Message, err
}

func (s *aiService) DecisionTree(ctx context.Context, req dto.DecisionTreeRequest) (models.DecisionAdvice, error) {
	var out models.DecisionAdvice
	err := s.generate(ctx, "decision_tree", vertexCall{
		system:      decisionPrompt,
		payload:     req,
		schema:      decisionSchema(),
		temperature: 0.4,
	}, &out)
	return out, err
}

type vertexCall struct {
	system      string
	payload     any
	schema      *dto.VertexSchema
	temperature float32
}

func (s *aiService) generate(ctx context.Context, name string, call vertexCall, out any) error {
	log := logger.FromContext(ctx)

	body, err := json.Marshal(call.payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", name, err)
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:           call.system,
		UserMessage:      string(body),
		Temperature:      helpers.Ptr(call.temperature),
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   call.schema,
	})
	if err != nil {
		log.Warn("ai request failed", "prompt", name, "error", err)
		var ext *errs.ExternalServiceError
		if errors.As(err, &ext) {
			return ext
		}
		return errs.NewExternalServiceError(aiServiceName, name+" request failed", errs.IsTransient(err), err)
	}

	if err := decodeShaped(resp.Text, call.schema, out); err != nil {
		log.Warn("ai response had unexpected shape", "prompt", name, "finish_reason", resp.FinishReason, "error", err)
		if logger.IsDebugEnabled(ctx) {
			log.Debug("ai raw response", "prompt", name, "text", resp.Text)
		}
		return err
	}
	log.Info("ai response decoded", "prompt", name, "finish_reason", resp.FinishReason)
	return nil
}

// decodeShaped checks every required top-level key against the schema type
// before decoding into out.
func decodeShaped(text string, schema *dto.VertexSchema, out any) error {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "```")), "```")

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return errs.NewUpstreamFormatError(aiServiceName, "response is not a JSON object")
	}

	for _, key := range schema.Required {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			return errs.NewUpstreamFormatError(aiServiceName, "response is missing "+key)
		}
		prop := schema.Properties[key]
		if prop != nil && !jsonKindMatches(raw, prop.Type) {
			return errs.NewUpstreamFormatError(aiServiceName, fmt.Sprintf("response field %s is not %s", key, prop.Type))
		}
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errs.NewUpstreamFormatError(aiServiceName, "decode response: "+err.Error())
	}
	return nil
}

func jsonKindMatches(raw json.RawMessage, schemaType string) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return false
	}
	switch schemaType {
	case "string":
		return trimmed[0] == '"'
	case "array":
		return trimmed[0] == '['
	case "object":
		return trimmed[0] == '{'
	case "number", "integer":
		return trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')
	case "boolean":
		return trimmed == "true" || trimmed == "false"
	default:
		return true
	}
}

func stringSchema(desc string) *dto.VertexSchema {
	return &dto.VertexSchema{Type: "string", Description: desc}
}

func stringListSchema(desc string) *dto.VertexSchema {
	return &dto.VertexSchema{Type: "array", Description: desc, Items: &dto.VertexSchema{Type: "string"}}
}

func comparisonSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"summary":              stringSchema("Overview with specific rupee amounts"),
			"job_comparison":       stringSchema("Comparison of the two job profiles and typical spending"),
			"savings_insights":     stringSchema("Savings rate comparison and monthly difference"),
			"spending_patterns":    stringListSchema("3-5 category comparisons with amounts"),
			"recommendations":      stringListSchema("5-7 actionable recommendations with amounts"),
			"unnecessary_expenses": stringListSchema("3-5 overspent categories with reduction targets"),
			"peer_benchmark":       stringSchema("One benchmark sentence about similar peers"),
		},
		Required: []string{
			"summary", "job_comparison", "savings_insights", "spending_patterns",
			"recommendations", "unnecessary_expenses", "peer_benchmark",
		},
	}
}

func roadmapSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"dreamType":     stringSchema("Short category such as travel, vehicle, education or home"),
			"estimatedCost": {Type: "number", Description: "Realistic cost in INR"},
			"milestones":    stringListSchema("Monthly or quarterly checkpoints"),
			"challenges":    stringListSchema("Risks to the plan"),
			"proTips":       stringListSchema("Practical saving tips"),
			"alternatives":  stringListSchema("Cheaper or faster alternatives"),
		},
		Required: []string{"dreamType", "estimatedCost", "milestones", "challenges", "proTips"},
	}
}

func incomeGrowthSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"marketPosition": stringSchema("Honest assessment of the current market position"),
			"growthPaths": {
				Type: "array",
				Items: &dto.VertexSchema{
					Type: "object",
					Properties: map[string]*dto.VertexSchema{
						"name":              stringSchema("Path name"),
						"potentialIncrease": stringSchema("Expected increase, e.g. 30-50% in 12-18 months"),
						"timeline":          stringSchema("Realistic timeline"),
						"steps":             stringListSchema("Concrete steps"),
					},
					Required: []string{"name", "potentialIncrease", "timeline", "steps"},
				},
			},
			"recommendations":         stringListSchema("4-6 prioritized recommendations"),
			"expectedMonthlyIncrease": {Type: "number", Description: "Expected monthly increase in INR"},
		},
		Required: []string{"marketPosition", "growthPaths", "recommendations", "expectedMonthlyIncrease"},
	}
}

func opportunitySchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"message": stringSchema("Under 200 words covering time cost, investment cost, one question and one alternative"),
		},
		Required: []string{"message"},
	}
}

func decisionSchema() *dto.VertexSchema {
	return &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"decisionRating":    {Type: "string", Enum: []string{models.DecisionSmart, models.DecisionNeutral, models.DecisionRisky}},
			"recommendedChoice": stringSchema("The option the user should take"),
			"confidenceScore":   {Type: "integer", Description: "Confidence from 0 to 100"},
			"reasoning": {
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"financialFactors":     stringSchema("Effect on cash flow and savings"),
					"psychologicalFactors": stringSchema("Biases and motivations at play"),
					"opportunityCostView":  stringSchema("What is given up"),
					"riskAnalysis":         stringSchema("Downside given the risk profile"),
				},
				Required: []string{"financialFactors", "psychologicalFactors", "opportunityCostView", "riskAnalysis"},
			},
			"paths": {
				Type: "array",
				Items: &dto.VertexSchema{
					Type: "object",
					Properties: map[string]*dto.VertexSchema{
						"pathName":    stringSchema("Immediate Gratification, Delayed Gratification, Conservative Path or Strategic Path"),
						"outcome":     stringSchema("Likely outcome of this path"),
						"probability": stringSchema("Likelihood as a percentage"),
					},
					Required: []string{"pathName", "outcome", "probability"},
				},
			},
			"finalAdvice": stringSchema("One paragraph of advice"),
		},
		Required: []string{"decisionRating", "recommendedChoice", "confidenceScore", "reasoning", "paths", "finalAdvice"},
	}
}

const comparisonPrompt = `You are a data-driven financial advisor comparing two users with similar profiles in India.
The input JSON holds each user's profile as occupation_income_savings and their transactions as CSV with the header category,amount,type,description.
Every insight must cite specific rupee amounts or percentages taken from the data. No generic advice.
Return one JSON object with the keys summary, job_comparison, savings_insights, spending_patterns, recommendations, unnecessary_expenses and peer_benchmark.`

const roadmapPrompt = `You are a personal finance planner for users in India.
The input JSON describes a dream, its budget, the user's monthly income and the computed monthly saving plan.
Do not change the computed numbers. Estimate the realistic cost of the dream in INR, and list milestones, challenges, pro tips and alternatives that fit the saving plan.`

const incomeGrowthPrompt = `You are an expert career and income growth advisor for the Indian job market.
The input JSON describes the user's profession, monthly income, experience and skills.
Give specific, realistic paths to raise income with timelines, and estimate the expected monthly increase in INR.`

const opportunityPrompt = `You are a financial advisor helping someone in India see the true cost of a purchase.
The input JSON holds the item, its cost, the user's hourly wage, the hours, days and weeks of work it represents and its future value if invested.
Quote those numbers as given. Cover the time perspective, the investment perspective, one thought-provoking question and one alternative use of the money.`

const decisionPrompt = `You are a financial advisor trained in behavioural psychology, risk modelling and long-term planning.
The input JSON describes a dilemma with the user's monthly income, savings in INR and risk profile.
Evaluate it along four paths: Immediate Gratification, Delayed Gratification, Conservative Path and Strategic Path.
Rate the decision as Smart, Neutral or Risky and give a confidence score from 0 to 100.`
