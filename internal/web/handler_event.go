package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/service"
)

// createEventResponse is the one place the admin key crosses the wire: it is
// shown to the creator once and never serialized again.
type createEventResponse struct {
	Event    *domain.Event `json:"event"`
	AdminKey string        `json:"adminKey"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in service.CreateEventInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	event, err := s.planner.CreateEvent(r.Context(), credentials(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createEventResponse{Event: event, AdminKey: event.AdminKey})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := s.planner.GetEvent(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateEventInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	event, err := s.planner.UpdateEvent(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteEvent(r.Context(), credentials(r), chi.URLParam(r, "slug")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddDay(w http.ResponseWriter, r *http.Request) {
	var in service.CreateDayInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	day, err := s.planner.AddDay(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.planner.DeleteDay(r.Context(), credentials(r), chi.URLParam(r, "slug"), dayID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts the {id} path variable as int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}
