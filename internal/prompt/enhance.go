package prompt

import (
	"log/slog"

	"github.com/soraformula/soraformula/internal/model"
)

const (
	qualitySuffix      = ", award-winning quality"
	professionalSuffix = ", professional grade, commercial ready"

	// enhanceQualityThreshold is the minimum quality that earns the quality marker
	enhanceQualityThreshold = 80
)

type Enhancement struct {
	Original     string   `json:"original"`
	Enhanced     string   `json:"enhanced"`
	Improvements []string `json:"improvements"`
}

// EnhanceFormula appends fixed quality and professional markers to a formula
func EnhanceFormula(baseFormula string, generatorType model.GeneratorType, quality int) (enhancement Enhancement) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("enhance formula failed", "error", r, "generator", generatorType)
			enhancement = Enhancement{Original: baseFormula, Enhanced: baseFormula, Improvements: []string{}}
		}
	}()

	enhanced := baseFormula
	improvements := []string{}

	if quality >= enhanceQualityThreshold {
		enhanced += qualitySuffix
		improvements = append(improvements, "Added quality markers")
	}

	enhanced += professionalSuffix
	improvements = append(improvements, "Added professional specifications")

	return Enhancement{
		Original:     baseFormula,
		Enhanced:     enhanced,
		Improvements: improvements,
	}
}
