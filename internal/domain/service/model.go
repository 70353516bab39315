package service

import (
	"context"
	"encoding/json"

	"onchainiq/internal/domain/models"
)

// StructuredRequest is a single schema-constrained generation.
type StructuredRequest struct {
	System          string
	Prompt          string
	SchemaName      string
	Schema          json.Marshaler
	MaxOutputTokens int
}

// ChatRequest is one streaming chat turn.
type ChatRequest struct {
	System          string
	Messages        []models.ChatMessage
	MaxOutputTokens int
}

// TextStream yields text fragments in generation order and io.EOF at the end.
// Close releases the underlying connection and may be called at any point.
type TextStream interface {
	Recv() (string, error)
	Close() error
}

// ModelProvider is a hosted language model.
type ModelProvider interface {
	// GenerateStructured returns the raw JSON document produced by the model.
	// Validation against the schema is the caller's job.
	GenerateStructured(ctx context.Context, req StructuredRequest) ([]byte, error)
	StreamText(ctx context.Context, req ChatRequest) (TextStream, error)
}
