// Package prompt builds the natural-language prompt ("formula") from a set of
// category selections and scores how complete that prompt is.
package prompt

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/soraformula/soraformula/internal/model"
)

// Placeholder is returned whenever there is nothing to build a prompt from
const Placeholder = "Add custom instructions and select categories to build your prompt"

// categoryOrder is the order in which templated categories are emitted
var categoryOrder = []string{"environment", "angle", "mood", "lighting", "style"}

var categoryTemplates = map[string]func(string) string{
	"environment": func(v string) string { return "in " + v },
	"angle":       func(v string) string { return "shot from " + v },
	"mood":        func(v string) string { return "capturing " + v },
	"lighting":    func(v string) string { return "using " + v },
	"style":       func(v string) string { return "shot in " + v + " style" },
}

// GenerateFormula joins the custom instructions and the selected categories
// into a single prompt. It never panics; on any internal failure it returns
// Placeholder.
func GenerateFormula(generatorType model.GeneratorType, selections model.Selections, customInstructions string, uploadedFiles []model.ProcessedFile) (formula string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("generate formula failed", "error", r, "generator", generatorType)
			formula = Placeholder
		}
	}()

	var parts []string
	if instructions := strings.TrimSpace(customInstructions); instructions != "" {
		parts = append(parts, instructions)
	}
	parts = append(parts, categoryClauses(selections)...)

	if len(parts) == 0 {
		return Placeholder
	}
	formula = strings.Join(parts, ", ")

	if refs := referenceNames(uploadedFiles); len(refs) > 0 {
		formula += ", referencing visual style from " + strings.Join(refs, ", ")
	}
	return formula
}

// categoryClauses renders the templated categories in fixed order, followed by
// any unrecognized categories as their bare lowercased value (sorted by key).
func categoryClauses(selections model.Selections) []string {
	var clauses []string
	for _, key := range categoryOrder {
		value := selections[key]
		if value == "" {
			continue
		}
		clauses = append(clauses, categoryTemplates[key](strings.ToLower(value)))
	}

	var other []string
	for key, value := range selections {
		if value == "" {
			continue
		}
		if _, ok := categoryTemplates[key]; ok {
			continue
		}
		other = append(other, key)
	}
	sort.Strings(other)
	for _, key := range other {
		clauses = append(clauses, strings.ToLower(selections[key]))
	}
	return clauses
}

// referenceNames returns the extension-less names of processed image uploads
func referenceNames(files []model.ProcessedFile) []string {
	var names []string
	for _, f := range files {
		if !f.IsReferenceImage() {
			continue
		}
		names = append(names, strings.TrimSuffix(f.Name, path.Ext(f.Name)))
	}
	return names
}
