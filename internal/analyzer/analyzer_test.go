package analyzer

import (
	"testing"
	"time"

	"github.com/newswatchhq/newswatch/internal/models"
)

func TestCategorize(t *testing.T) {
	a := New()

	tests := []struct {
		name     string
		input    string
		expected models.Category
	}{
		{"empty text", "", models.CategoryOther},
		{"no keyword match", "the weather is nice today", models.CategoryOther},
		{"military", "troops attack near border", models.CategoryMilitary},
		{"diplomatic", "bilateral talks ahead of the summit", models.CategoryDiplomatic},
		{"economic", "trade deficit widens as export tariffs bite", models.CategoryEconomic},
		{"social", "cricket festival draws huge crowds", models.CategorySocial},
		{"case insensitive", "TROOPS ATTACK NEAR BORDER", models.CategoryMilitary},
		{"tie keeps earlier category", "army summit", models.CategoryMilitary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Categorize(tt.input); got != tt.expected {
				t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCategorizeAlwaysDefined(t *testing.T) {
	a := New()

	known := make(map[models.Category]bool)
	for _, c := range models.Categories() {
		known[c] = true
	}

	inputs := []string{"", "x", "q w e r t y", "shelling summit trade cricket", "1234"}
	for _, input := range inputs {
		if got := a.Categorize(input); !known[got] {
			t.Errorf("Categorize(%q) returned unknown category %q", input, got)
		}
	}
}

func TestIsPriority(t *testing.T) {
	a := New()

	tests := []struct {
		name     string
		text     string
		category models.Category
		score    int
		expected bool
	}{
		{"military with keyword", "nuclear concerns rise", models.CategoryMilitary, 0, true},
		{"military without keyword", "troops relocated for exercises", models.CategoryMilitary, 0, false},
		{"diplomatic very negative", "talks collapse in acrimony", models.CategoryDiplomatic, -3, true},
		{"diplomatic at boundary", "talks stall again", models.CategoryDiplomatic, -2, false},
		{"keyword and very negative", "nuclear plant shut", models.CategoryEconomic, -4, true},
		{"keyword at boundary", "nuclear plant shut", models.CategoryEconomic, -3, false},
		{"negative without keyword", "markets tumble sharply", models.CategoryEconomic, -10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.IsPriority(tt.text, tt.category, tt.score)
			if got != tt.expected {
				t.Errorf("IsPriority(%q, %q, %d) = %v, want %v", tt.text, tt.category, tt.score, got, tt.expected)
			}
		})
	}
}

func TestAnnotateScenario(t *testing.T) {
	a := New()

	raw := []models.RawArticle{{
		Title:       "Troops attack near border",
		PublishedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		Source:      models.Source{Name: "Wire"},
	}}

	annotated, skipped := a.Annotate(raw)
	if skipped != 0 {
		t.Fatalf("expected no skipped articles, got %d", skipped)
	}
	if len(annotated) != 1 {
		t.Fatalf("expected 1 annotated article, got %d", len(annotated))
	}

	got := annotated[0]
	if got.Category != models.CategoryMilitary {
		t.Errorf("expected military category, got %q", got.Category)
	}
	if !got.IsPriority {
		t.Error("expected article to be flagged priority")
	}
	if got.SentimentScore != got.Sentiment.Score {
		t.Errorf("score %d disagrees with detail %d", got.SentimentScore, got.Sentiment.Score)
	}
}

func TestAnnotatePreservesOrder(t *testing.T) {
	a := New()

	raw := []models.RawArticle{
		{Title: "trade talks resume"},
		{Title: "cricket final tonight"},
		{Title: "shelling reported at the border"},
	}

	annotated, skipped := a.Annotate(raw)
	if skipped != 0 {
		t.Fatalf("expected no skipped articles, got %d", skipped)
	}
	if len(annotated) != len(raw) {
		t.Fatalf("expected %d articles, got %d", len(raw), len(annotated))
	}
	for i := range raw {
		if annotated[i].Title != raw[i].Title {
			t.Errorf("order not preserved at %d: %q", i, annotated[i].Title)
		}
	}
}

func TestAnnotateSkipsMalformed(t *testing.T) {
	a := New()

	raw := []models.RawArticle{
		{Title: "trade talks resume"},
		{URL: "https://example.com/empty"}, // no title, no description
		{Description: "summit scheduled for next week"},
	}

	annotated, skipped := a.Annotate(raw)
	if skipped != 1 {
		t.Errorf("expected 1 skipped article, got %d", skipped)
	}
	if len(annotated) != 2 {
		t.Errorf("expected 2 annotated articles, got %d", len(annotated))
	}
}

func TestAnnotateDeterministic(t *testing.T) {
	a := New()

	raw := []models.RawArticle{
		{Title: "Ceasefire violation sparks fear", Description: "shelling across the border"},
	}

	first, _ := a.Annotate(raw)
	second, _ := a.Annotate(raw)

	if first[0].Category != second[0].Category ||
		first[0].SentimentScore != second[0].SentimentScore ||
		first[0].IsPriority != second[0].IsPriority {
		t.Error("annotation is not reproducible for identical input")
	}
}
