package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ajoux/festin/internal/service"
)

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMealInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	meal, err := s.planner.AddMeal(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in service.UpdateMealInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	meal, err := s.planner.UpdateMeal(r.Context(), credentials(r), chi.URLParam(r, "slug"), mealID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	mealID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.planner.DeleteMeal(r.Context(), credentials(r), chi.URLParam(r, "slug"), mealID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderMeals(w http.ResponseWriter, r *http.Request) {
	var in service.ReorderMealsInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	meals, err := s.planner.ReorderMeals(r.Context(), credentials(r), chi.URLParam(r, "slug"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}
