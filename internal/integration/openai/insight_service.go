package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// InsightResponse defines the structured output of the Harbor Helper agent.
type InsightResponse struct {
	Insight    string `json:"insight" jsonschema_description:"Two or three plain sentences explaining the likely cause of the reported anomaly and what observers should watch for"`
	Confidence string `json:"confidence" jsonschema:"enum=low,enum=medium,enum=high" jsonschema_description:"How confident the explanation is given the report"`
}

// InsightService explains community anomaly reports.
type InsightService interface {
	ExplainPost(ctx context.Context, post entities.AnomalyPost) (*InsightResponse, error)
}

// insightServiceImpl implements the InsightService interface.
type insightServiceImpl struct {
	client openai.Client
	model  string
	schema interface{}
}

// GenerateSchema generates a JSON schema for a given type.
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// NewInsightService creates and initializes a new InsightService.
// Extra client options (base URL, retries) are mostly useful in tests.
func NewInsightService(apiKey, model string, opts ...option.RequestOption) (InsightService, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is not set")
	}
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &insightServiceImpl{
		client: openai.NewClient(opts...),
		model:  model,
		schema: GenerateSchema[InsightResponse](),
	}, nil
}

const systemPrompt = `You are Harbor Helper, a marine scientist who explains community-reported ocean anomalies to the public.

For each report you receive (category tag, location, coordinates and the observer's own words):
- Explain the most likely natural or human cause in two or three short, plain sentences.
- Mention one thing observers or pond operators should watch for next.
- Do not invent measurements that are not in the report.
- Rate your confidence as low, medium or high.

Output **strictly** in JSON.`

// ExplainPost sends a report to the agent and returns the structured explanation.
func (s *insightServiceImpl) ExplainPost(ctx context.Context, post entities.AnomalyPost) (*InsightResponse, error) {
	userMessage := fmt.Sprintf("Tag: %s\nLocation: %s (%.4f, %.4f)\nReported at: %s\nReport: %s",
		post.Tag, post.Location, post.Lat, post.Lon, post.Timestamp, post.Message)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "harbor_helper_insight",
		Description: openai.String("Plain-language explanation of a community ocean anomaly report"),
		Schema:      s.schema,
		Strict:      openai.Bool(true),
	}

	respFormat := openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		ResponseFormat: respFormat,
		Model:          openai.ChatModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, errors.New("received empty response from OpenAI")
	}

	var resp InsightResponse
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &resp); err != nil {
		zap.S().Errorf("Failed to unmarshal OpenAI response: %s\nRaw response: %s", err, chat.Choices[0].Message.Content)
		return nil, fmt.Errorf("error unmarshalling OpenAI response: %w", err)
	}
	resp.Insight = strings.TrimSpace(resp.Insight)
	if resp.Insight == "" {
		return nil, errors.New("OpenAI returned an empty insight")
	}

	return &resp, nil
}
