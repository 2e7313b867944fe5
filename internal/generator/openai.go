package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/oduppinsjr/rapid-web-ai/prometheus"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const tracerName = "github.com/oduppinsjr/rapid-web-ai/internal/generator"

// OpenAIGenerator implements Generator with the OpenAI chat completions API in JSON mode
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator. A non-empty BaseURL points the client at an
// OpenAI-compatible endpoint.
func NewOpenAIGenerator(cfg config.OpenAIConfig) *OpenAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4o
	}

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   modelName,
		timeout: timeout,
	}
}

// GenerateWebsite builds a complete site from a business description
func (g *OpenAIGenerator) GenerateWebsite(ctx context.Context, req WebsiteRequest) (datatypes.JSON, error) {
	raw, err := g.complete(ctx, "generate_website",
		websiteSystemPrompt,
		fmt.Sprintf(websiteUserPrompt, req.Prompt, req.BusinessType, req.Style),
		attribute.String("business_type", req.BusinessType),
		attribute.String("style", req.Style),
	)
	if err != nil {
		return nil, apperror.Generation("Failed to generate website", err)
	}

	if err := model.ValidateGeneratedWebsite(raw); err != nil {
		return nil, apperror.Generation("Failed to generate website", err)
	}

	return datatypes.JSON(raw), nil
}

// ModifyWebsite applies an instruction to the current content and returns the new document
func (g *OpenAIGenerator) ModifyWebsite(ctx context.Context, current datatypes.JSON, instruction string) (datatypes.JSON, error) {
	raw, err := g.complete(ctx, "modify_website",
		modifySystemPrompt,
		fmt.Sprintf(modifyUserPrompt, string(current), instruction),
	)
	if err != nil {
		return nil, apperror.Generation("Failed to modify website", err)
	}

	if err := model.ValidateDocument("content", raw); err != nil {
		return nil, apperror.Generation("Failed to modify website", err)
	}

	return datatypes.JSON(raw), nil
}

// GenerateContent writes section copy for a business type
func (g *OpenAIGenerator) GenerateContent(ctx context.Context, businessType, prompt string) (datatypes.JSON, error) {
	userPrompt := prompt
	if strings.TrimSpace(userPrompt) == "" {
		userPrompt = fmt.Sprintf(contentDefaultUserPrompt, businessType)
	}

	raw, err := g.complete(ctx, "generate_content",
		fmt.Sprintf(contentSystemPrompt, businessType),
		userPrompt,
		attribute.String("business_type", businessType),
	)
	if err != nil {
		return nil, apperror.Generation("Failed to generate content", err)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil || object == nil {
		return nil, apperror.Generation("Failed to generate content", errors.New("generated content is not a JSON object"))
	}

	return datatypes.JSON(raw), nil
}

// complete runs one chat completion under the configured deadline and returns the
// message body
func (g *OpenAIGenerator) complete(ctx context.Context, operation, system, user string, attrs ...attribute.KeyValue) ([]byte, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "generator."+operation)
	defer span.End()
	span.SetAttributes(append(attrs, attribute.String("llm.model", g.model))...)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	log := logger.FromStdContext(ctx)
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("provider returned no choices")
	}

	var content string
	if err == nil {
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			err = errors.New("provider returned an empty message")
		} else if !json.Valid([]byte(content)) {
			err = errors.New("provider returned invalid JSON")
		}
	}

	if err != nil {
		prometheus.RecordAIGeneration(operation, "error", start)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("AI generation failed",
			zap.String("operation", operation),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	prometheus.RecordAIGeneration(operation, "success", start)
	span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))
	log.Info("AI generation completed",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return []byte(content), nil
}
