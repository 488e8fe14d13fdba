package grammar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const geminiPrompt = `You are a part-of-speech tagger. Tag the single English word below, taken out of any
sentence context, with one Penn Treebank tag (for example VB, VBZ, VBG, NN, NNS, JJ, IN).
Answer with JSON only: {"tag": "<TAG>"}

Word: %s`

// generateFunc sends a prompt to a model and returns its raw text answer
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiTagger asks a Gemini model for the tag of a word
type GeminiTagger struct {
	model    string
	generate generateFunc
}

// NewGeminiTagger creates a tagger backed by the Gemini API
func NewGeminiTagger(ctx context.Context, apiKey, model string) (*GeminiTagger, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	generate := func(ctx context.Context, prompt string) (string, error) {
		resp, err := cli.Models.GenerateContent(ctx, model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty Gemini response")
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return &GeminiTagger{model: model, generate: generate}, nil
}

func (t *GeminiTagger) Tag(ctx context.Context, word string) (string, error) {
	raw, err := t.generate(ctx, fmt.Sprintf(geminiPrompt, word))
	if err != nil {
		return "", fmt.Errorf("gemini tag request failed: %w", err)
	}
	var out TagResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return "", fmt.Errorf("failed to decode gemini answer %q: %w", raw, err)
	}
	tag := strings.ToUpper(strings.TrimSpace(out.Tag))
	if tag == "" {
		return "", fmt.Errorf("gemini returned no tag for %q", word)
	}
	return tag, nil
}

func (t *GeminiTagger) Name() string {
	return "gemini:" + t.model
}
