package model

import "strings"

// Processing states of an uploaded reference file.
// Transitions are driven by whoever processes the upload.
const (
	FileStatusPending    = "pending"
	FileStatusProcessing = "processing"
	FileStatusComplete   = "complete"
	FileStatusError      = "error"
)

type ProcessedFile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Size             int64  `json:"size"`
	Type             string `json:"type"`
	ProcessingStatus string `json:"processingStatus"`
	ProcessedData    string `json:"processedData,omitempty"` // base64-encoded JSON payload
}

// IsReferenceImage reports whether the file can be referenced by a prompt
func (f ProcessedFile) IsReferenceImage() bool {
	return strings.HasPrefix(f.Type, "image/") && f.ProcessingStatus == FileStatusComplete
}

// ReferencePayload is the decoded form of ProcessedFile.ProcessedData
type ReferencePayload struct {
	URL         string `json:"url"`
	StoragePath string `json:"storagePath"`
	MimeType    string `json:"mimeType"`
	Size        int64  `json:"size"`
}
