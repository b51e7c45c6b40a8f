package store

import (
	"context"
	"time"
)

// Store persists preprocessed documents from batch runs
type Store interface {
	Close() error

	// PutDoc inserts or replaces a document keyed by Source and returns the
	// stored ID. A replaced document keeps its original ID.
	PutDoc(ctx context.Context, d Doc) (string, error)
	// GetDoc returns internalerr.ErrNotFound for an unknown ID.
	GetDoc(ctx context.Context, id string) (Doc, error)
	GetDocBySource(ctx context.Context, source string) (Doc, bool, error)
	// ListDocs returns documents in ID order (ULIDs sort by creation time).
	ListDocs(ctx context.Context, limit int) ([]Doc, error)
	// DocsByToken returns documents whose output contains token.
	DocsByToken(ctx context.Context, token string, limit int) ([]Doc, error)
	// TopTokens returns the tokens that occur in the most documents.
	TopTokens(ctx context.Context, k int) ([]TokenCount, error)
}

// Doc is one preprocessed document
type Doc struct {
	ID          string // ULID
	Source      string // file path, JSONL source field, or "-" for stdin
	Output      string
	Tokens      []string
	ProcessedAt time.Time
}

// TokenCount is a token's document frequency
type TokenCount struct {
	Token string
	Docs  int64
}

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 20
