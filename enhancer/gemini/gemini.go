// Package gemini implements a narration enhancer backed by Google's Gemini
// models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nathoo/storyseed/types"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// Enhancer rewrites offline narration with a Gemini model.
type Enhancer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates an enhancer with the given API key and model name.
func New(ctx context.Context, apiKey, model string) (*Enhancer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	return &Enhancer{client: client, model: m}, nil
}

// Close releases the client.
func (e *Enhancer) Close() error {
	return e.client.Close()
}

// Enhance asks the model to rewrite base in the world's voice. The caller
// bounds the call with ctx.
func (e *Enhancer) Enhance(ctx context.Context, base string, world types.World) (string, error) {
	resp, err := e.model.GenerateContent(ctx, genai.Text(Prompt(base, world)))
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: response has no text")
	}
	return sb.String(), nil
}

const systemPrompt = `You are the narrator of a short interactive story.
You will receive a passage written by a simple text generator. Rewrite it as vivid second-person prose.
Keep every fact, name, and event in the passage. Do not add choices, new characters, or outcomes.
Reply with the rewritten passage only, at most three short paragraphs.`

// Prompt builds the user prompt for a passage.
func Prompt(base string, world types.World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Genre: %s\n", world.Genre)
	fmt.Fprintf(&sb, "Setting: %s, %s, the mood %s\n", world.Location, world.TimeOfDay, world.Atmosphere)
	fmt.Fprintf(&sb, "The reader is a %s travelling to %s.\n", world.Role, world.Destination)
	fmt.Fprintf(&sb, "Tension: %.0f%%. Mystery: %.0f%%.\n\n", world.Tension*100, world.Mystery*100)
	sb.WriteString("Passage:\n")
	sb.WriteString(base)
	return sb.String()
}
