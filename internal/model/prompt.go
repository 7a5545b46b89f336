package model

// PromptVersion is a history entry
type PromptVersion struct {
	ID        string `json:"id"`
	Formula   string `json:"formula"`
	Timestamp int64  `json:"timestamp"` // epoch ms
	Quality   int    `json:"quality"`
}

// SavedPrompt is a favorite
type SavedPrompt struct {
	ID                 string        `json:"id"`
	GeneratorType      GeneratorType `json:"generatorType"`
	Formula            string        `json:"formula"`
	Selections         Selections    `json:"selections"`
	CustomInstructions string        `json:"customInstructions"`
	UploadedFiles      []string      `json:"uploadedFiles"` // file names only
	Timestamp          int64         `json:"timestamp"`
	Quality            int           `json:"quality"`
}
