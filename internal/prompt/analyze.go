package prompt

import (
	"log/slog"
	"math"
	"strings"

	"github.com/soraformula/soraformula/internal/model"
)

const (
	RecommendMoreSelections = "Add more category selections"
	RecommendInstructions   = "Add custom instructions"
	RecommendReferences     = "Upload reference images"
)

// fullSelectionCount is the number of selections that counts as 100% complete
const fullSelectionCount = 6

type Analysis struct {
	Quality         int      `json:"quality"`
	Completeness    int      `json:"completeness"`
	Coherence       int      `json:"coherence"`
	Creativity      int      `json:"creativity"`
	Recommendations []string `json:"recommendations"`
}

func fallbackAnalysis() Analysis {
	return Analysis{
		Quality:         50,
		Completeness:    0,
		Coherence:       50,
		Creativity:      50,
		Recommendations: []string{"Error analyzing prompt"},
	}
}

// AnalyzePrompt scores a prompt's inputs on a 0-100 scale.
//
// This is deliberately a different formula from promptstate's PromptQuality;
// both are exposed and neither is derived from the other.
func AnalyzePrompt(generatorType model.GeneratorType, selections model.Selections, customInstructions string, uploadedFiles []model.ProcessedFile) (analysis Analysis) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analyze prompt failed", "error", r, "generator", generatorType)
			analysis = fallbackAnalysis()
		}
	}()

	selected := selections.Count()
	hasInstructions := strings.TrimSpace(customInstructions) != ""
	hasFiles := len(uploadedFiles) > 0

	completeness := math.Min(float64(selected)/fullSelectionCount*100, 100)

	quality := completeness * 0.7
	if hasInstructions {
		quality += 20
	}
	if hasFiles {
		quality += 10
	}
	quality = math.Min(quality, 100)

	creativity := 50
	if hasInstructions {
		creativity = 75
	}

	recommendations := []string{}
	if selected < 3 {
		recommendations = append(recommendations, RecommendMoreSelections)
	}
	if !hasInstructions {
		recommendations = append(recommendations, RecommendInstructions)
	}
	if !hasFiles {
		recommendations = append(recommendations, RecommendReferences)
	}

	return Analysis{
		Quality:         int(math.Round(quality)),
		Completeness:    int(math.Round(completeness)),
		Coherence:       85,
		Creativity:      creativity,
		Recommendations: recommendations,
	}
}
