// Package analysis produces AI assessments of diary entries.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/platelog/platelog-backend/internal/model"
)

const systemPrompt = "You are a supportive nutrition coach. Assess the meal the user " +
	"describes in two or three sentences: what is good about it, and one concrete, " +
	"kind suggestion. Never shame the user."

// OpenAIAnalyzer calls the OpenAI chat completions API. Transient failures
// (429 and 5xx) are retried with exponential backoff; the SDK's own retry
// loop is disabled so backoff owns the policy.
type OpenAIAnalyzer struct {
	client openai.Client
	model  string
}

// NewOpenAIAnalyzer builds an analyzer. baseURL is optional and exists for
// tests and proxies; model defaults to gpt-4o-mini when empty.
func NewOpenAIAnalyzer(apiKey, modelName, baseURL string) *OpenAIAnalyzer {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIAnalyzer{client: openai.NewClient(opts...), model: modelName}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, e *model.DiaryEntry) (*model.MealAnalysis, error) {
	prompt := buildPrompt(e)

	var content string
	op := func() error {
		completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(a.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(completion.Choices) == 0 {
			return backoff.Permanent(errors.New("empty completion"))
		}
		content = completion.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, 3), ctx)); err != nil {
		return nil, fmt.Errorf("analyze entry %s: %w", e.EntryID, err)
	}

	return &model.MealAnalysis{
		Summary:   content,
		Model:     a.model,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func retryable(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500
	}
	// Anything that never reached the API (network, timeouts) is worth a retry.
	return true
}

func buildPrompt(e *model.DiaryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diary entry (%s) on %s", entryKind(e.EntryType), e.Date)
	if e.Time != "" {
		fmt.Fprintf(&b, " at %s", e.Time)
	}
	fmt.Fprintf(&b, ":\n%s\n", e.Content)
	if e.Feeling != "" {
		fmt.Fprintf(&b, "Feeling afterwards: %s\n", e.Feeling)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, "Eaten at: %s\n", e.Location)
	}
	if e.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", e.Company)
	}
	if len(e.Behaviors) > 0 {
		fmt.Fprintf(&b, "Noted behaviors: %s\n", strings.Join(e.Behaviors, ", "))
	}
	return b.String()
}

func entryKind(t model.EntryType) string {
	if t == "" {
		return string(model.EntryMeal)
	}
	return string(t)
}
