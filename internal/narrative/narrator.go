package narrative

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/learnpulse/internal/insight"
)

const narratorSystemPrompt = `You are a learning coach writing one short,
encouraging insight message for a learner on a developer education platform.
You receive the learner's assigned learning style and a few behavioral
metrics. Write 1-2 sentences, warm and specific, referencing the metrics
where they help. Do not invent numbers that were not given.`

const narratorMaxTokens = 300

// insightSchema constrains the model to a single message field.
var insightSchema = &Schema{
	Name:        "learning-insight",
	Description: "One short insight message for the learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "The insight message, 1-2 sentences",
			},
		},
		"required":             []any{"message"},
		"additionalProperties": false,
	},
}

// Narrator adapts a Provider to the insight.Narrator interface.
type Narrator struct {
	provider Provider
}

// NewNarrator wraps a Provider for insight generation.
func NewNarrator(p Provider) *Narrator {
	return &Narrator{provider: p}
}

// Narrate asks the model for an insight message built from the structured
// context. Errors propagate so the resolver can fall back deterministically.
func (n *Narrator) Narrate(ctx context.Context, c insight.Context) (string, error) {
	prompt := fmt.Sprintf(
		"Learning style: %s\nAverage quiz rating: %.1f out of 5\nAverage tutorial duration: %.0f minutes\nTutorial revisit rate: %.0f%%\nActive learning days: %d\nTutorials completed: %d",
		c.Label, c.Rating, c.AvgDurationMinutes, c.RevisitRate*100, c.ActiveDays, c.CompletedTutorials)

	resp, err := n.provider.Generate(ctx, Request{
		System:    narratorSystemPrompt,
		Prompt:    prompt,
		Schema:    insightSchema,
		MaxTokens: narratorMaxTokens,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return out.Message, nil
}
