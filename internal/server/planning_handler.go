package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/A-ndrey/spdesk/internal/model"
)

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Statistics.Collect(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "statistics", st)
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var in model.NewPlan
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.deps.Plans.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "plan_id", plan.ID, "plan", plan)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.deps.Plans.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "plans", plans)
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) {
	var patch model.PlanPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Plans.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, r, notFound(err, "Plan not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Plan updated successfully")
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Plans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, notFound(err, "Plan not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Plan deleted successfully")
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var in model.NewSchedule
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sc, err := s.deps.Schedules.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "schedule_id", sc.ID, "schedule", sc)
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.deps.Schedules.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "schedules", schedules)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in model.NewEvent
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := in.Normalize()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ev, err := s.deps.Events.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "event_id", ev.ID, "event", ev)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Events.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "events", events)
}
