package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
	"github.com/A-ndrey/spdesk/internal/storage"
)

var (
	errTicketNotFound = failure.NotFound("server.ticket", "Ticket not found")
	errTicketDenied   = failure.Forbidden("server.ticket", "Access denied")
)

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var in model.NewTicket
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	tk, err := s.deps.Tickets.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "ticket_id", tk.ID, "ticket", tk)
}

func (s *Server) myTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.deps.Tickets.ListByUser(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "tickets", tickets)
}

func (s *Server) allTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.deps.Tickets.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "tickets", tickets)
}

// accessibleTicket loads the ticket named in the path when the caller owns
// it or holds an elevated role.
func (s *Server) accessibleTicket(r *http.Request) (model.Ticket, error) {
	tk, err := s.deps.Tickets.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		return model.Ticket{}, errTicketNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}

	c := claims(r)
	if tk.UserID != c.Subject && !c.Role.Elevated() {
		return model.Ticket{}, errTicketDenied
	}

	return tk, nil
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	tk, err := s.accessibleTicket(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "ticket", tk)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var patch model.TicketPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.deps.Tickets.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if errors.Is(err, storage.ErrNotFound) {
		err = errTicketNotFound
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "Ticket updated successfully")
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) addTicketComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := model.ValidateComment("server.addTicketComment", req.Comment); err != nil {
		s.writeError(w, r, err)
		return
	}

	tk, err := s.accessibleTicket(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cm, err := s.deps.Tickets.AddComment(r.Context(), tk.ID, claims(r).Subject, req.Comment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "comment_id", cm.ID, "comment", cm)
}

func (s *Server) listTicketComments(w http.ResponseWriter, r *http.Request) {
	tk, err := s.accessibleTicket(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	comments, err := s.deps.Tickets.ListComments(r.Context(), tk.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "comments", comments)
}
