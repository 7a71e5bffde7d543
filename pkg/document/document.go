// Package document wraps patch graphs in persistable documents.
//
// A Document is the unit of storage and transport: a named graph with a
// stable GUID, a format version, and timestamps. The package handles
// serialization across format versions (older documents are migrated on
// read) and merging of two documents into one.
package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/patchwire/patchwire/pkg/errors"
	"github.com/patchwire/patchwire/pkg/flow"
)

// CurrentVersion is the document format version written by this release.
//
// Version history:
//   - 1: edges carried "source"/"target" fields
//   - 2: edges carry "from"/"to" with optional port indices
const CurrentVersion = 2

// Document is a persistable patch graph with identity and metadata.
type Document struct {
	ID        string            `json:"id" bson:"_id"`
	Version   int               `json:"version" bson:"version"`
	Name      string            `json:"name,omitempty" bson:"name,omitempty"`
	Graph     flow.Graph        `json:"graph" bson:"graph"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
	Meta      map[string]string `json:"meta,omitempty" bson:"meta,omitempty"`
}

// New creates an empty document with a fresh GUID and current timestamps.
func New(name string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Version:   CurrentVersion,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FromGraph wraps an existing graph in a new document.
func FromGraph(name string, g flow.Graph) *Document {
	d := New(name)
	d.Graph = g
	return d
}

// Touch updates the document's modification timestamp.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// RegenerateID assigns the document a fresh GUID. Used when importing a
// document that may collide with an existing one.
func (d *Document) RegenerateID() {
	d.ID = uuid.NewString()
}

// Validate checks document integrity: a parseable GUID, a supported
// version, and a valid graph.
func (d *Document) Validate() error {
	if _, err := uuid.Parse(d.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "document ID %q is not a valid GUID", d.ID)
	}
	if d.Version < 1 || d.Version > CurrentVersion {
		return errors.New(errors.ErrCodeUnsupportedVersion,
			"unsupported document version %d (supported: 1 through %d)", d.Version, CurrentVersion)
	}
	if err := d.Graph.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	out.Graph = d.Graph.Clone()
	if d.Meta != nil {
		out.Meta = make(map[string]string, len(d.Meta))
		for k, v := range d.Meta {
			out.Meta[k] = v
		}
	}
	return &out
}

// Marshal serializes the document as pretty-printed JSON at the current
// format version.
func Marshal(d *Document) ([]byte, error) {
	d.Version = CurrentVersion
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal document")
	}
	return data, nil
}

// Unmarshal deserializes a document, migrating older format versions to the
// current one. Documents newer than CurrentVersion are rejected.
func Unmarshal(data []byte) (*Document, error) {
	d, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode deserializes and migrates a document without validating it.
// Repair tooling uses it to load documents whose IDs still need fixing up
// (see EnsureIDs); everything else should go through Unmarshal.
func Decode(data []byte) (*Document, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse document")
	}

	if header.Version > CurrentVersion {
		return nil, errors.New(errors.ErrCodeUnsupportedVersion,
			"document version %d is newer than supported version %d", header.Version, CurrentVersion)
	}
	if header.Version == 1 {
		return decodeV1(data)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse document")
	}
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	return &d, nil
}
