package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/A-ndrey/spdesk/internal/model"
)

func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var in model.NewService
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	svc, err := s.deps.Services.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "service_id", svc.ID, "service", svc)
}

func (s *Server) allServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.deps.Services.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "services", services)
}

func (s *Server) myServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.deps.Services.ListByUser(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "services", services)
}

func (s *Server) serviceStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Services.Statistics(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "statistics", st)
}

func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	var patch model.ServicePatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Services.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, r, notFound(err, "Service not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Service updated successfully")
}

func (s *Server) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Services.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, notFound(err, "Service not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Service deleted successfully")
}
