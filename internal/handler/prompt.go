package handler

import (
	"net/http"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/prompt"
)

type PromptHandler struct{}

func NewPromptHandler() *PromptHandler {
	return &PromptHandler{}
}

type formulaRequest struct {
	GeneratorType      model.GeneratorType   `json:"generatorType"`
	Selections         model.Selections      `json:"selections"`
	CustomInstructions string                `json:"customInstructions"`
	UploadedFiles      []model.ProcessedFile `json:"uploadedFiles"`
	Enhance            bool                  `json:"enhance"`
}

type formulaResponse struct {
	Formula     string              `json:"formula"`
	Analysis    prompt.Analysis     `json:"analysis"`
	Enhancement *prompt.Enhancement `json:"enhancement,omitempty"`
}

func (h *PromptHandler) Formula(w http.ResponseWriter, r *http.Request) {
	var req formulaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.GeneratorType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown generator type: "+string(req.GeneratorType))
		return
	}

	resp := formulaResponse{
		Formula:  prompt.GenerateFormula(req.GeneratorType, req.Selections, req.CustomInstructions, req.UploadedFiles),
		Analysis: prompt.AnalyzePrompt(req.GeneratorType, req.Selections, req.CustomInstructions, req.UploadedFiles),
	}
	if req.Enhance {
		enhancement := prompt.EnhanceFormula(resp.Formula, req.GeneratorType, resp.Analysis.Quality)
		resp.Enhancement = &enhancement
	}

	writeJSON(w, http.StatusOK, resp)
}

type generatorCategories struct {
	GeneratorType model.GeneratorType `json:"generatorType"`
	Label         string              `json:"label"`
	Categories    []prompt.Category   `json:"categories"`
}

// Categories lists one generator's table, or every table without a query
func (h *PromptHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("generatorType"); q != "" {
		g := model.GeneratorType(q)
		if !g.Valid() {
			writeError(w, http.StatusBadRequest, "unknown generator type: "+q)
			return
		}
		writeJSON(w, http.StatusOK, generatorCategories{GeneratorType: g, Label: g.Label(), Categories: prompt.Categories(g)})
		return
	}

	all := make([]generatorCategories, 0, len(model.GeneratorTypes))
	for _, g := range model.GeneratorTypes {
		all = append(all, generatorCategories{GeneratorType: g, Label: g.Label(), Categories: prompt.Categories(g)})
	}
	writeJSON(w, http.StatusOK, all)
}
