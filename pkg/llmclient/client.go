// Package llmclient wraps the multimodal chat-completions call every
// pipeline stage makes: a (system prompt, user prompt, optional mockup
// image) triple in, an envelope-shaped JSON string out. Retry/backoff and
// failure classification generalize the teacher's gRPC LLM client's
// recovery posture from MCP session failures to OpenAI API failures.
package llmclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Request is one stage's completion call.
type Request struct {
	System      string
	User        string
	Image       []byte // already-normalized PNG bytes, may be nil
	MaxTokens   int
	Temperature float64
}

// Response carries the raw text plus usage accounting needed for the
// metrics and cost-estimate collectors.
type Response struct {
	RawText          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client wraps an openai.Client with the retry/backoff policy spec.md's
// stage-calling contract requires.
type Client struct {
	api        openai.Client
	model      string
	maxRetries uint64
}

// NewClient builds a Client for the given model, authenticating via the
// standard OPENAI_API_KEY resolution openai-go's option package performs
// when no explicit key is supplied.
func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:        openai.NewClient(opts...),
		model:      model,
		maxRetries: 3,
	}
}

// Complete issues one chat-completion call, retrying transient failures
// (rate limits, 5xx, connection errors) with exponential backoff. A
// non-retryable failure or an exhausted retry budget returns immediately —
// the pipeline stage is responsible for deciding whether that collapses
// the whole request (stage 1) or only that stage's output (every other
// stage, per the fail-open redesign).
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	var resp *Response

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = time.Second
	expo.Multiplier = 2
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.maxRetries), ctx)

	err := backoff.RetryNotify(func() error {
		r, err := c.complete(ctx, req)
		if err != nil {
			if ClassifyError(err) == NoRetry {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("llm completion attempt failed, retrying", "error", err, "wait", wait)
	})
	if err != nil {
		return nil, fmt.Errorf("llmclient: completion failed: %w", err)
	}

	return resp, nil
}

func (c *Client) complete(ctx context.Context, req Request) (*Response, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.System),
	}

	if len(req.Image) == 0 {
		messages = append(messages, openai.UserMessage(req.User))
	} else {
		dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image)
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						{OfText: &openai.ChatCompletionContentPartTextParam{Text: req.User}},
						{OfImageURL: &openai.ChatCompletionContentPartImageParam{
							ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI},
						}},
					},
				},
			},
		})
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("llmclient: empty choices in completion response")
	}

	out := &Response{RawText: completion.Choices[0].Message.Content}
	out.PromptTokens = int(completion.Usage.PromptTokens)
	out.CompletionTokens = int(completion.Usage.CompletionTokens)
	out.TotalTokens = int(completion.Usage.TotalTokens)
	return out, nil
}
