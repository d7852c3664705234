package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"riskassess-backend/internal/ingest"
	"riskassess-backend/internal/shared/storage/object"
)

// Service contains business logic for documents.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	StorageProvider string
}

// Upload saves the file to object storage and records the document. The MIME
// type is checked against the ingestion allowlist up front so users learn
// about unsupported formats at upload time, not when a run fails.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	mime := ingest.NormalizeMimeType(mimeType, fileName)
	if !ingest.Accepted(mime, fileName) {
		return Document{}, fmt.Errorf("%w: unsupported file type %q; upload a PDF or a plain-text format (txt, md, csv, json, html, xml)", ErrInvalidInput, mime)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mime,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// CreateFromS3 records a document already uploaded to object storage via a
// presigned URL.
func (s *Service) CreateFromS3(ctx context.Context, userID, storageKey, fileName, contentType string, sizeBytes int64) (Document, error) {
	if userID == "" || storageKey == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if sizeBytes <= 0 {
		return Document{}, fmt.Errorf("%w: sizeBytes must be positive", ErrInvalidInput)
	}

	mime := ingest.NormalizeMimeType(contentType, fileName)
	if !ingest.Accepted(mime, fileName) {
		return Document{}, fmt.Errorf("%w: unsupported file type %q; upload a PDF or a plain-text format (txt, md, csv, json, html, xml)", ErrInvalidInput, mime)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mime,
		SizeBytes:       sizeBytes,
		StorageProvider: "s3",
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Get returns a document by ID for a user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns documents for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
