package web

import (
	"net/http"
	"strconv"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/service"
)

func (s *Server) handleQueryAudit(w http.ResponseWriter, r *http.Request) {
	in, err := auditQueryFromURL(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.planner.QueryAudit(r.Context(), credentials(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func auditQueryFromURL(r *http.Request) (service.AuditQueryInput, error) {
	q := r.URL.Query()
	in := service.AuditQueryInput{
		Table:  q.Get("table"),
		Action: q.Get("action"),
	}

	if raw := q.Get("userId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, apperr.Validation("invalid userId")
		}
		in.UserID = &userID
	}
	if raw := q.Get("recordId"); raw != "" {
		recordID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, apperr.Validation("invalid recordId")
		}
		in.RecordID = recordID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return in, apperr.Validation("invalid limit")
		}
		in.Limit = limit
	}
	return in, nil
}
