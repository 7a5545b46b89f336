package prompt

import (
	"slices"
	"testing"

	"github.com/soraformula/soraformula/internal/model"
)

func TestGenerateFormula_Empty(t *testing.T) {
	got := GenerateFormula(model.GeneratorProduct, model.Selections{}, "", nil)
	if got != Placeholder {
		t.Errorf("GenerateFormula() = %q, want placeholder", got)
	}

	// Whitespace instructions and cleared selections count as empty.
	got = GenerateFormula(model.GeneratorProduct, model.Selections{"mood": ""}, "   ", nil)
	if got != Placeholder {
		t.Errorf("GenerateFormula() = %q, want placeholder", got)
	}
}

func TestGenerateFormula_CategoryOrder(t *testing.T) {
	sel := model.Selections{"angle": "Low Angle", "environment": "Tokyo Street"}
	got := GenerateFormula(model.GeneratorLifestyle, sel, "", nil)
	want := "in tokyo street, shot from low angle"
	if got != want {
		t.Errorf("GenerateFormula() = %q, want %q", got, want)
	}
}

func TestGenerateFormula_InstructionsLead(t *testing.T) {
	got := GenerateFormula(model.GeneratorLifestyle, model.Selections{"mood": "Joyful"}, "A cat", nil)
	want := "A cat, capturing joyful"
	if got != want {
		t.Errorf("GenerateFormula() = %q, want %q", got, want)
	}
}

func TestGenerateFormula_AllTemplates(t *testing.T) {
	sel := model.Selections{
		"style":       "Cinematic",
		"lighting":    "Golden Hour",
		"mood":        "Calm",
		"angle":       "Top Down",
		"environment": "Urban Loft",
	}
	got := GenerateFormula(model.GeneratorProduct, sel, "", nil)
	want := "in urban loft, shot from top down, capturing calm, using golden hour, shot in cinematic style"
	if got != want {
		t.Errorf("GenerateFormula() = %q, want %q", got, want)
	}
}

func TestGenerateFormula_UnrecognizedKeysFallBack(t *testing.T) {
	sel := model.Selections{
		"typography": "Bold Sans Serif",
		"color":      "Pastel",
		"style":      "Swiss",
	}
	got := GenerateFormula(model.GeneratorGraphic, sel, "", nil)
	want := "shot in swiss style, pastel, bold sans serif"
	if got != want {
		t.Errorf("GenerateFormula() = %q, want %q", got, want)
	}
}

func TestGenerateFormula_References(t *testing.T) {
	files := []model.ProcessedFile{
		{ID: "1", Name: "moodboard.png", Type: "image/png", ProcessingStatus: model.FileStatusComplete},
		{ID: "2", Name: "still.frame.jpg", Type: "image/jpeg", ProcessingStatus: model.FileStatusComplete},
		{ID: "3", Name: "pending.png", Type: "image/png", ProcessingStatus: model.FileStatusPending},
		{ID: "4", Name: "brief.pdf", Type: "application/pdf", ProcessingStatus: model.FileStatusComplete},
	}

	got := GenerateFormula(model.GeneratorProduct, model.Selections{"mood": "Premium"}, "", files)
	want := "capturing premium, referencing visual style from moodboard, still.frame"
	if got != want {
		t.Errorf("GenerateFormula() = %q, want %q", got, want)
	}

	// References alone never produce a prompt.
	got = GenerateFormula(model.GeneratorProduct, nil, "", files)
	if got != Placeholder {
		t.Errorf("GenerateFormula() with only files = %q, want placeholder", got)
	}
}

func TestAnalyzePrompt_ThreeSelections(t *testing.T) {
	sel := model.Selections{"mood": "Calm", "angle": "Top Down", "style": "Luxury"}
	a := AnalyzePrompt(model.GeneratorProduct, sel, "", nil)

	if a.Completeness != 50 {
		t.Errorf("Completeness = %d, want 50", a.Completeness)
	}
	if a.Quality != 35 {
		t.Errorf("Quality = %d, want 35", a.Quality)
	}
	if a.Coherence != 85 {
		t.Errorf("Coherence = %d, want 85", a.Coherence)
	}
	if a.Creativity != 50 {
		t.Errorf("Creativity = %d, want 50", a.Creativity)
	}
	if slices.Contains(a.Recommendations, RecommendMoreSelections) {
		t.Errorf("Recommendations = %v, should not ask for more selections", a.Recommendations)
	}
	want := []string{RecommendInstructions, RecommendReferences}
	if !slices.Equal(a.Recommendations, want) {
		t.Errorf("Recommendations = %v, want %v", a.Recommendations, want)
	}
}

func TestAnalyzePrompt_Full(t *testing.T) {
	sel := model.Selections{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5", "f": "6", "g": "7"}
	files := []model.ProcessedFile{{Name: "x.png", Type: "image/png"}}
	a := AnalyzePrompt(model.GeneratorProduct, sel, "A cat", files)

	if a.Completeness != 100 {
		t.Errorf("Completeness = %d, want 100", a.Completeness)
	}
	if a.Quality != 100 {
		t.Errorf("Quality = %d, want 100 (clamped)", a.Quality)
	}
	if a.Creativity != 75 {
		t.Errorf("Creativity = %d, want 75", a.Creativity)
	}
	if len(a.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want none", a.Recommendations)
	}
}

func TestAnalyzePrompt_Empty(t *testing.T) {
	a := AnalyzePrompt(model.GeneratorGraphic, nil, "", nil)
	if a.Quality != 0 || a.Completeness != 0 {
		t.Errorf("Quality, Completeness = %d, %d, want 0, 0", a.Quality, a.Completeness)
	}
	want := []string{RecommendMoreSelections, RecommendInstructions, RecommendReferences}
	if !slices.Equal(a.Recommendations, want) {
		t.Errorf("Recommendations = %v, want %v", a.Recommendations, want)
	}
}

func TestEnhanceFormula(t *testing.T) {
	e := EnhanceFormula("A cat", model.GeneratorLifestyle, 80)
	if e.Enhanced != "A cat, award-winning quality, professional grade, commercial ready" {
		t.Errorf("Enhanced = %q", e.Enhanced)
	}
	if e.Original != "A cat" {
		t.Errorf("Original = %q, want %q", e.Original, "A cat")
	}
	if len(e.Improvements) != 2 {
		t.Errorf("Improvements = %v, want 2 entries", e.Improvements)
	}

	e = EnhanceFormula("A cat", model.GeneratorLifestyle, 79)
	if e.Enhanced != "A cat, professional grade, commercial ready" {
		t.Errorf("Enhanced = %q", e.Enhanced)
	}
	if !slices.Equal(e.Improvements, []string{"Added professional specifications"}) {
		t.Errorf("Improvements = %v", e.Improvements)
	}
}

func TestCategories(t *testing.T) {
	for _, g := range model.GeneratorTypes {
		if len(Categories(g)) == 0 {
			t.Errorf("Categories(%q) is empty", g)
		}
	}
	if !HasCategory(model.GeneratorGraphic, "typography") {
		t.Error("graphic should have typography")
	}
	if HasCategory(model.GeneratorProduct, "typography") {
		t.Error("product should not have typography")
	}
	if Categories("video") != nil {
		t.Error("unknown generator should have no categories")
	}
}
