package negotiator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmadFikry/subscription-recovery/internal/domain"
	"github.com/AhmadFikry/subscription-recovery/internal/report"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}

func sampleReport(t *testing.T) *report.Report {
	t.Helper()
	return report.Build([]domain.HikeEvent{
		{
			Merchant:       "netflix",
			PreviousAmount: dec(t, "9.99"),
			NewAmount:      dec(t, "12.99"),
			Delta:          dec(t, "3"),
			OccurredAt:     time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			Merchant:       "gym",
			PreviousAmount: dec(t, "30"),
			NewAmount:      dec(t, "45"),
			Delta:          dec(t, "15"),
			OccurredAt:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	})
}

func TestNewGemini_DefaultModel(t *testing.T) {
	if g := NewGemini(""); g.Model != DefaultModelName {
		t.Errorf("Model = %q, want %q", g.Model, DefaultModelName)
	}
	if g := NewGemini("gemini-2.5-pro"); g.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q, want gemini-2.5-pro", g.Model)
	}
}

func TestGenerateScript_NoFindingsShortCircuits(t *testing.T) {
	// No API key, no network: an empty report must never reach the model.
	g := NewGemini("")

	script, err := g.GenerateScript(context.Background(), report.Build(nil))
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}
	if script != NoFindingsMessage {
		t.Errorf("script = %q, want %q", script, NoFindingsMessage)
	}

	script, err = g.GenerateScript(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateScript(nil) failed: %v", err)
	}
	if script != NoFindingsMessage {
		t.Errorf("script = %q, want %q", script, NoFindingsMessage)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := buildPrompt(sampleReport(t))
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}

	// The findings JSON must be embedded verbatim.
	findings, err := sampleReport(t).FindingsJSON()
	if err != nil {
		t.Fatalf("FindingsJSON failed: %v", err)
	}
	if !strings.Contains(prompt, string(findings)) {
		t.Errorf("prompt does not embed the findings JSON:\n%s", prompt)
	}

	// The largest hike (gym, +15) is the one called out for negotiation.
	if !strings.Contains(prompt, `"gym"`) {
		t.Errorf("prompt does not name the largest hike merchant:\n%s", prompt)
	}
	for _, fragment := range []string{"30", "45", "15", "negotiation email"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt is missing %q:\n%s", fragment, prompt)
		}
	}
}
