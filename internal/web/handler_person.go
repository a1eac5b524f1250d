package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ajoux/festin/internal/service"
)

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePersonInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.planner.AddPerson(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in service.UpdatePersonInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	person, err := s.planner.UpdatePerson(r.Context(), credentials(r), chi.URLParam(r, "slug"), personID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	personID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.planner.DeletePerson(r.Context(), credentials(r), chi.URLParam(r, "slug"), personID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
