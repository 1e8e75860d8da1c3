// Package narrator asks a hosted language model to turn recollections into
// structured autobiographical chapters.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// fallbackChapter replaces life chapters the model invents.
const fallbackChapter = model.ChapterChildhood

// NarrativeArc is the five-part structure of a chapter.
type NarrativeArc struct {
	Exposition    string `json:"exposition"`
	RisingAction  string `json:"risingAction"`
	Climax        string `json:"climax"`
	FallingAction string `json:"fallingAction"`
	Resolution    string `json:"resolution"`
}

// Chapter is one generated chapter.
type Chapter struct {
	Title           string                `json:"title"`
	Content         string                `json:"content"`
	Emotion         string                `json:"emotion"`
	NarrativeArc    NarrativeArc          `json:"narrativeArc"`
	Themes          []string              `json:"themes"`
	WritingStyle    string                `json:"writingStyle"`
	LifeChapter     model.LifeChapter     `json:"lifeChapter"`
	ChapterMetadata model.ChapterMetadata `json:"chapterMetadata"`
}

// Config holds client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client generates chapters through the chat completions API.
type Client struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// New creates a client. A missing API key is an error so the service fails at startup.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	m := cfg.Model
	if m == "" {
		m = DefaultModel
	}
	return &Client{client: openai.NewClientWithConfig(oc), model: m, log: log}, nil
}

// Model returns the configured chat model.
func (c *Client) Model() string { return c.model }

type completion struct {
	Chapters []Chapter `json:"chapters"`
}

// Compose requests chapters for sources. Options are defaulted and validated here.
func (c *Client) Compose(ctx context.Context, sources []SourceStory, opts Options) ([]Chapter, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no source text to narrate", model.ErrValidation)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(sources, opts)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		ev := c.log.Error().Err(err).Str("model", c.model)
		var apiErr *openai.APIError
		var reqErr *openai.RequestError
		switch {
		case errors.As(err, &apiErr):
			ev = ev.Int("status", apiErr.HTTPStatusCode).Str("api_message", apiErr.Message)
		case errors.As(err, &reqErr):
			ev = ev.Int("status", reqErr.HTTPStatusCode)
		}
		ev.Msg("chat completion failed")
		return nil, fmt.Errorf("%w: chat completion: %v", model.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		c.log.Error().Str("model", c.model).Str("id", resp.ID).Msg("chat completion returned no choices")
		return nil, fmt.Errorf("%w: no completion choices returned", model.ErrUpstream)
	}

	content := resp.Choices[0].Message.Content
	var out completion
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		c.log.Error().Err(err).Str("raw", content).Msg("chat completion is not valid JSON")
		return nil, fmt.Errorf("parse chapters: %w", err)
	}
	if len(out.Chapters) == 0 {
		c.log.Error().Str("raw", content).Msg("chat completion has no chapters")
		return nil, fmt.Errorf("%w: model returned no chapters", model.ErrUpstream)
	}

	for i := range out.Chapters {
		ch := &out.Chapters[i]
		if !ch.LifeChapter.Valid() {
			c.log.Warn().Str("life_chapter", string(ch.LifeChapter)).Str("title", ch.Title).
				Msg("model returned unknown life chapter; using fallback")
			ch.LifeChapter = fallbackChapter
		}
		if ch.Themes == nil {
			ch.Themes = []string{}
		}
	}
	return out.Chapters, nil
}
