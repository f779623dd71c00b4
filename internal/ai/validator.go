// Package ai implements the optional AI chart validator. The scanner's output
// is complete without it; when enabled it asks an OpenAI-compatible model for
// a second opinion on a detected setup and blends the verdict score with the
// detector's own.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vivekvjoshi/StockScanner/internal/analysis"
	"github.com/vivekvjoshi/StockScanner/internal/errors"
	"github.com/vivekvjoshi/StockScanner/pkg/utils"
)

// Verdict is the structured answer the model returns.
type Verdict struct {
	Verdict   string  `json:"verdict"` // valid | questionable | invalid
	Score     float64 `json:"score"`   // 0-100
	Reasoning string  `json:"reasoning"`
}

// Validator sends chart artifacts to an OpenAI-compatible endpoint.
type Validator struct {
	client *openai.Client
	model  string
	retry  utils.RetryConfig
}

// NewValidator builds a validator. baseURL may be empty for the default
// OpenAI endpoint.
func NewValidator(apiKey, baseURL, model string) (*Validator, error) {
	if apiKey == "" {
		return nil, errors.ErrAIUnavailable
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &Validator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		retry:  utils.DefaultRetryConfig(),
	}, nil
}

const systemPrompt = `You are a technical analyst reviewing algorithmically detected chart patterns.
Given a JSON snapshot of the candles and the detected pattern's trade levels,
judge whether the pattern is genuine. Respond with JSON only:
{"verdict": "valid|questionable|invalid", "score": 0-100, "reasoning": "one or two sentences"}`

// Validate reviews one detection. artifactPath points at the chart snapshot
// written by the renderer.
func (v *Validator) Validate(ctx context.Context, symbol string, desc *analysis.Descriptor, artifactPath string) (*Verdict, error) {
	snapshot, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading chart artifact")
	}

	prompt := fmt.Sprintf(
		"Symbol: %s\nPattern: %s\nStatus: %s\nDetector score: %.0f\nPivot: %.2f Stop: %.2f Target: %.2f\n\nChart snapshot:\n%s",
		symbol, desc.Kind, desc.Status, desc.Score, desc.Pivot, desc.StopLoss, desc.Target, snapshot,
	)

	resp, err := utils.RetryWithResult(ctx, v.retry, func() (openai.ChatCompletionResponse, error) {
		return v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       v.model,
			Temperature: 0.1,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "ai completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(errors.ErrAIUnavailable, "empty completion")
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return verdict, nil
}

// parseVerdict extracts the JSON verdict, tolerating markdown code fences
// around the payload.
func parseVerdict(content string) (*Verdict, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
		content = strings.TrimSpace(content)
	}

	var v Verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, errors.Wrap(err, "parsing ai verdict")
	}
	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}
	return &v, nil
}

// Blend combines the detector score with the AI score. weight is the AI
// share in [0, 1].
func Blend(detectorScore, aiScore, weight float64) float64 {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	return detectorScore*(1-weight) + aiScore*weight
}
