package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ajoux/festin/internal/service"
)

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var in service.CreateItemInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.planner.AddItem(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in service.UpdateItemInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.planner.UpdateItem(r.Context(), credentials(r), chi.URLParam(r, "slug"), itemID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.planner.DeleteItem(r.Context(), credentials(r), chi.URLParam(r, "slug"), itemID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
