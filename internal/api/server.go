// Package api exposes the ledger over HTTP. Routing uses chi; callers
// identify themselves through headers (see callerFromRequest) and the
// service decides what they may do.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/navin-oss/CropChain/internal/ledger"
	"github.com/navin-oss/CropChain/internal/sqlite"
	"github.com/navin-oss/CropChain/pkg/types"
)

// Server wires the ledger service into HTTP handlers.
type Server struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewServer creates an HTTP server over the ledger service.
func NewServer(svc *ledger.Service, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Route("/batches", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{batchID}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/updates", s.handleAppendUpdate)
			r.Post("/recall", s.handleRecall)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p ledger.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, s.log, badRequest("decoding create payload", err))
		return
	}

	// A farmer creates batches under their own identity; only admins may
	// create on another farmer's behalf.
	caller := callerFromRequest(r)
	if !caller.IsAdmin() && !caller.Owns(p.FarmerID) {
		writeError(w, s.log, types.ErrForbidden)
		return
	}

	b, err := s.svc.CreateBatch(r.Context(), p)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filter := sqlite.BatchFilter{
		FarmerID: r.URL.Query().Get("farmerId"),
	}
	if v := r.URL.Query().Get("stage"); v != "" {
		stage, ok := types.NormalizeStage(v)
		if !ok {
			writeError(w, s.log, fmt.Errorf("%w: unknown stage %q", types.ErrValidation, v))
			return
		}
		filter.Stage = stage
	}
	if v := r.URL.Query().Get("recalled"); v != "" {
		recalled, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, s.log, badRequest("parsing recalled", err))
			return
		}
		filter.Recalled = &recalled
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, s.log, badRequest("parsing limit", err))
			return
		}
		if limit < 0 {
			writeError(w, s.log, fmt.Errorf("%w: limit must not be negative", types.ErrValidation))
			return
		}
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, s.log, badRequest("parsing offset", err))
			return
		}
		if offset < 0 {
			writeError(w, s.log, fmt.Errorf("%w: offset must not be negative", types.ErrValidation))
			return
		}
		filter.Offset = offset
	}

	batches, err := s.svc.ListBatches(r.Context(), filter)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleAppendUpdate(w http.ResponseWriter, r *http.Request) {
	var upd types.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, s.log, badRequest("decoding update", err))
		return
	}

	caller := callerFromRequest(r)
	b, err := s.svc.Authorize(r.Context(), caller, chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	b, err = s.svc.AppendUpdate(r.Context(), b, upd)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	b, err := s.svc.Recall(r.Context(), caller, chi.URLParam(r, "batchID"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if err := s.svc.DeleteBatch(r.Context(), caller, chi.URLParam(r, "batchID")); err != nil {
		writeError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
