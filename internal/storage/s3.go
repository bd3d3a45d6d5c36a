// Package storage provides S3 storage for generated artifacts.
package storage

import (
	"fmt"
	"strings"
)

// S3ClientInterface defines the interface for S3 operations.
type S3ClientInterface interface {
	GetObject(key string) ([]byte, error)
	PutObject(key string, data []byte) error
	ListObjects(prefix string) ([]string, error)
}

// ArtifactStore keeps rendered images and CSV exports of finished
// aggregates under aggregates/<job-id>/.
type ArtifactStore struct {
	client        S3ClientInterface
	cloudfrontURL string
}

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(client S3ClientInterface, cloudfrontURL string) *ArtifactStore {
	return &ArtifactStore{
		client:        client,
		cloudfrontURL: strings.TrimSuffix(cloudfrontURL, "/"),
	}
}

// PutRender stores a rendered PNG and returns its public URL.
func (s *ArtifactStore) PutRender(jobID string, data []byte) (string, error) {
	key := fmt.Sprintf("aggregates/%s/render.png", jobID)
	if err := s.client.PutObject(key, data); err != nil {
		return "", fmt.Errorf("failed to store render: %w", err)
	}
	return s.url(key), nil
}

// PutExport stores a CSV export and returns its public URL.
func (s *ArtifactStore) PutExport(jobID string, data []byte) (string, error) {
	key := fmt.Sprintf("aggregates/%s/export.csv", jobID)
	if err := s.client.PutObject(key, data); err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}
	return s.url(key), nil
}

// GetRender fetches a previously stored render.
func (s *ArtifactStore) GetRender(jobID string) ([]byte, error) {
	data, err := s.client.GetObject(fmt.Sprintf("aggregates/%s/render.png", jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to get render: %w", err)
	}
	return data, nil
}

// ListArtifacts lists the stored artifact keys for a job.
func (s *ArtifactStore) ListArtifacts(jobID string) ([]string, error) {
	keys, err := s.client.ListObjects(fmt.Sprintf("aggregates/%s/", jobID))
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return keys, nil
}

func (s *ArtifactStore) url(key string) string {
	if s.cloudfrontURL == "" {
		return key
	}
	return s.cloudfrontURL + "/" + key
}
