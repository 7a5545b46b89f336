package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/storage"
)

const referencePrefix = "references"

// ReferenceService stores reference images and reports them as processed files
type ReferenceService struct {
	storage storage.Storage
}

func NewReferenceService(storage storage.Storage) *ReferenceService {
	return &ReferenceService{storage: storage}
}

// Upload saves content and returns the file in state complete, or in state
// error together with the cause when storing fails.
// Note: content validation should be done by the caller.
func (s *ReferenceService) Upload(ctx context.Context, content io.Reader, name string, size int64, mimeType string) (model.ProcessedFile, error) {
	id := uuid.New().String()
	file := model.ProcessedFile{
		ID:               id,
		Name:             name,
		Size:             size,
		Type:             mimeType,
		ProcessingStatus: model.FileStatusProcessing,
	}

	storagePath := path.Join(referencePrefix, id+strings.ToLower(path.Ext(name)))

	if err := s.storage.Save(ctx, storagePath, content, mimeType); err != nil {
		file.ProcessingStatus = model.FileStatusError
		return file, fmt.Errorf("failed to save reference image: %w", err)
	}

	url, err := s.storage.URL(ctx, storagePath)
	if err != nil {
		file.ProcessingStatus = model.FileStatusError
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			slog.Error("failed to delete reference image during cleanup", "error", delErr, "path", storagePath)
		}
		return file, fmt.Errorf("failed to resolve reference image URL: %w", err)
	}

	payload, err := json.Marshal(model.ReferencePayload{
		URL:         url,
		StoragePath: storagePath,
		MimeType:    mimeType,
		Size:        size,
	})
	if err != nil {
		file.ProcessingStatus = model.FileStatusError
		return file, fmt.Errorf("failed to encode reference payload: %w", err)
	}

	file.ProcessedData = base64.StdEncoding.EncodeToString(payload)
	file.ProcessingStatus = model.FileStatusComplete

	slog.Info("reference image stored", "file_id", id, "path", storagePath, "size", size)
	return file, nil
}

// Payload decodes ProcessedData of a completed file
func Payload(file model.ProcessedFile) (*model.ReferencePayload, error) {
	raw, err := base64.StdEncoding.DecodeString(file.ProcessedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode processed data: %w", err)
	}
	var payload model.ReferencePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse processed data: %w", err)
	}
	return &payload, nil
}
