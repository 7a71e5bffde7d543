// Package store persists patch documents.
//
// DocumentStore is the storage abstraction used by the API server and the
// CLI. Two implementations ship with the toolkit: MongoStore for server
// deployments and MemoryStore for tests and ephemeral usage. Both key
// documents by their GUID and overwrite on save.
package store

import (
	"context"
	"time"

	"github.com/patchwire/patchwire/pkg/document"
)

// Summary is a lightweight listing entry, cheap to produce for large
// collections because it omits the graph itself.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DocumentStore persists patch documents keyed by GUID.
//
// Get returns a DOCUMENT_NOT_FOUND error for unknown IDs; Delete of an
// unknown ID reports the same so callers can distinguish a no-op from a
// successful removal.
type DocumentStore interface {
	// Put saves a document, overwriting any existing one with the same ID.
	Put(ctx context.Context, d *document.Document) error

	// Get loads a document by ID.
	Get(ctx context.Context, id string) (*document.Document, error)

	// Delete removes a document by ID.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all stored documents.
	List(ctx context.Context) ([]Summary, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
