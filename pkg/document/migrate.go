package document

import (
	"encoding/json"
	"time"

	"github.com/patchwire/patchwire/pkg/errors"
	"github.com/patchwire/patchwire/pkg/flow"
)

// Version 1 documents used "source"/"target" edge fields and had no port
// indices. They remain readable; writing always produces the current
// version.

type v1Document struct {
	ID        string            `json:"id"`
	Version   int               `json:"version"`
	Name      string            `json:"name,omitempty"`
	Graph     v1Graph           `json:"graph"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type v1Graph struct {
	Nodes []flow.Node `json:"nodes"`
	Edges []v1Edge    `json:"edges"`
}

type v1Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// decodeV1 reads a version 1 document and upgrades it in memory.
func decodeV1(data []byte) (*Document, error) {
	var old v1Document
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse v1 document")
	}

	d := &Document{
		ID:        old.ID,
		Version:   CurrentVersion,
		Name:      old.Name,
		CreatedAt: old.CreatedAt,
		UpdatedAt: old.UpdatedAt,
		Meta:      old.Meta,
		Graph: flow.Graph{
			Nodes: old.Graph.Nodes,
			Edges: make([]flow.Edge, len(old.Graph.Edges)),
		},
	}
	for i, e := range old.Graph.Edges {
		d.Graph.Edges[i] = flow.Edge{
			From:     e.Source,
			FromPort: flow.UnspecifiedPort,
			To:       e.Target,
			ToPort:   flow.UnspecifiedPort,
		}
	}

	return d, nil
}
