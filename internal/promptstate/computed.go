package promptstate

import "strings"

// Computed holds the values derived from the state on every change
type Computed struct {
	SelectedCount         int  `json:"selectedCount"`
	HasCustomInstructions bool `json:"hasCustomInstructions"`
	HasFiles              bool `json:"hasFiles"`
	TotalComponents       int  `json:"totalComponents"`
	IsComplete            bool `json:"isComplete"`
	PromptQuality         int  `json:"promptQuality"`
}

// completeSelectionCount is the selection count at which a prompt is complete
const completeSelectionCount = 4

func (s *Store) Computed() Computed {
	return ComputeFrom(s.Snapshot())
}

func ComputeFrom(st State) Computed {
	c := Computed{
		SelectedCount:         st.Selections.Count(),
		HasCustomInstructions: strings.TrimSpace(st.CustomInstructions) != "",
		HasFiles:              len(st.UploadedFiles) > 0,
	}

	c.TotalComponents = c.SelectedCount
	if c.HasCustomInstructions {
		c.TotalComponents++
	}
	if c.HasFiles {
		c.TotalComponents++
	}
	c.IsComplete = c.SelectedCount >= completeSelectionCount
	c.PromptQuality = PromptQuality(c.SelectedCount, c.HasCustomInstructions, c.HasFiles)
	return c
}

// PromptQuality is the store's own quality heuristic. It intentionally
// differs from prompt.AnalyzePrompt's quality score.
func PromptQuality(selectedCount int, hasInstructions, hasFiles bool) int {
	q := selectedCount * 10
	if hasInstructions {
		q += 15
	}
	if hasFiles {
		q += 10
	}
	if selectedCount >= 6 {
		q += 5
	}
	return min(q, 100)
}
