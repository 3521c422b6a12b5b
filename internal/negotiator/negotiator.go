// Package negotiator drafts negotiation scripts from analysis findings. It
// is the downstream text-generation collaborator: it consumes the engine's
// report and never feeds anything back into it.
package negotiator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/AhmadFikry/subscription-recovery/internal/report"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// NoFindingsMessage is returned instead of a script when the analysis found
// nothing to negotiate about. The model is never called in that case.
const NoFindingsMessage = "No price hikes found."

// ScriptGenerator produces a negotiation script for an analysis report.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, rep *report.Report) (string, error)
}

// GeminiScriptGenerator is the genai-backed ScriptGenerator. The client
// reads its API key from the environment (GEMINI_API_KEY).
type GeminiScriptGenerator struct {
	Model string
}

// NewGemini creates a generator for the given model, falling back to
// DefaultModelName when model is empty.
func NewGemini(model string) *GeminiScriptGenerator {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiScriptGenerator{Model: model}
}

// GenerateScript asks the model for a negotiation email covering the
// largest hike in the report. A report without findings short-circuits to
// NoFindingsMessage without any network call.
func (g *GeminiScriptGenerator) GenerateScript(ctx context.Context, rep *report.Report) (string, error) {
	if rep == nil || len(rep.Findings) == 0 {
		return NoFindingsMessage, nil
	}

	prompt, err := buildPrompt(rep)
	if err != nil {
		return "", fmt.Errorf("GenerateScript: build prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateScript: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateScript: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenerateScript: empty response from model")
	}
	return text, nil
}

// buildPrompt frames the findings for the model: an auditor's summary of
// the detected hikes plus instructions for a consumer-advocate style email
// about the largest one.
func buildPrompt(rep *report.Report) (string, error) {
	findings, err := rep.FindingsJSON()
	if err != nil {
		return "", fmt.Errorf("serialize findings: %w", err)
	}

	largest, _ := rep.LargestHike()

	var b strings.Builder
	b.WriteString("You are an expert consumer advocate, a master of customer retention psychology.\n\n")
	b.WriteString("A forensic audit of recurring charges found these price hikes ")
	b.WriteString("(fields: merchant, previous_amount, new_amount, delta, occurred_at):\n\n")
	b.Write(findings)
	b.WriteString("\n\n")
	fmt.Fprintf(&b,
		"The largest hike is from %q: the charge went from %s to %s (an increase of %s).\n\n",
		largest.Merchant, largest.PreviousAmount, largest.NewAmount, largest.Delta)
	b.WriteString("Task:\n")
	b.WriteString("- Write a 3-step negotiation email to that merchant asking for a refund or the old rate back.\n")
	b.WriteString("- Keep it persuasive and professional.\n")
	b.WriteString("- Use proper spacing, especially between numbers, currencies, and the start of new sentences.\n")
	b.WriteString("- Return only the email text, no commentary.\n")
	return b.String(), nil
}
