// Package server exposes the clinical report analysis pipeline over HTTP:
// authenticated uploads go through temp-file storage into the pipeline, and
// stored results are served back to their owner.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/medreport/analysis"
	"github.com/hazyhaar/medreport/docstore"
)

// Server wires the HTTP surface to the pipeline and the document store.
type Server struct {
	cfg    *Config
	pipe   *analysis.Pipeline
	store  *docstore.Store
	logger *slog.Logger
}

// New creates a Server. The pipeline and store are owned by the caller.
func New(cfg *Config, pipe *analysis.Pipeline, store *docstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, pipe: pipe, store: store, logger: logger}
}

// Routes builds the chi router for the service.
func (s *Server) Routes() http.Handler {
	secret := []byte(s.cfg.JWTSecret)
	limiter := newUploadLimiter(s.cfg.UploadRPS, s.cfg.UploadBurst)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler { return requireAuth(secret, next) })
		r.With(limiter.middleware).Post("/", s.handleUpload)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})

	return r
}

// handleUpload accepts a multipart report upload, persists it to a temp
// file, runs the analysis pipeline, and stores the result for the owner.
// The pipeline owns the temp file and deletes it on every outcome.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing or oversized file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tmpPath, err := s.saveUpload(file)
	if err != nil {
		s.logger.Error("save upload", "error", err)
		http.Error(w, "could not store upload", http.StatusInternalServerError)
		return
	}

	res := s.pipe.Process(r.Context(), tmpPath)

	doc, err := s.store.Insert(owner, filepath.Base(header.Filename), res)
	if err != nil {
		s.logger.Error("store document", "error", err)
		http.Error(w, "could not store result", http.StatusInternalServerError)
		return
	}

	s.logger.Info("document analyzed",
		"id", doc.ID, "owner", owner, "outcome", res.Outcome, "readings", len(res.TestResults))
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListByOwner(ownerFrom(r.Context()))
	if err != nil {
		s.logger.Error("list documents", "error", err)
		http.Error(w, "could not list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []*docstore.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("get document", "error", err)
		http.Error(w, "could not load document", http.StatusInternalServerError)
		return
	}
	// A foreign document is indistinguishable from a missing one.
	if doc == nil || doc.Owner != ownerFrom(r.Context()) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// saveUpload copies the uploaded stream into a fresh temp file inside the
// configured upload directory and returns its path.
func (s *Server) saveUpload(file io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", s.cfg.UploadDir, err)
	}
	tmp, err := os.CreateTemp(s.cfg.UploadDir, "report-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp: %w", err)
	}
	return tmp.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
