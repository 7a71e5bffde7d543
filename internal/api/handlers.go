package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patchwire/patchwire/pkg/document"
	"github.com/patchwire/patchwire/pkg/errors"
	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/pipeline"
)

// maxBodyBytes caps request bodies; patch graphs are small and anything
// larger points at a client bug.
const maxBodyBytes = 8 << 20

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	Graph   flow.Graph       `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the body of a successful layout call.
type layoutResponse struct {
	GraphHash string      `json:"graph_hash"`
	Layout    flow.Layout `json:"layout"`
	Cached    bool        `json:"cached"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Graph.Validate(); err != nil {
		writeError(w, err)
		return
	}

	req.Options.Logger = s.logger
	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), &req.Graph, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	var hash string
	if data, err := flow.MarshalGraph(&req.Graph); err == nil {
		hash = hashOf(data)
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		GraphHash: hash,
		Layout:    l,
		Cached:    hit,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": list})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var d document.Document
	if !decodeBody(w, r, &d) {
		return
	}
	if d.ID == "" {
		fresh := document.New(d.Name)
		d.ID = fresh.ID
		d.CreatedAt = fresh.CreatedAt
	}
	d.Version = document.CurrentVersion
	d.Touch()

	if err := s.store.Put(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &d)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var d document.Document
	if !decodeBody(w, r, &d) {
		return
	}
	d.ID = chi.URLParam(r, "id")
	d.Version = document.CurrentVersion
	d.Touch()

	if err := s.store.Put(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &d)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireStore writes a 501 when the server runs without document storage.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeErrorCode(w, http.StatusNotImplemented, errors.ErrCodeUnsupported,
			"document storage is not configured")
		return false
	}
	return true
}

// decodeBody parses a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorCode(w, http.StatusBadRequest, errors.ErrCodeInvalidFormat,
			"invalid request body: %v", err)
		return false
	}
	return true
}
