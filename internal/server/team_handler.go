package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/A-ndrey/spdesk/internal/auth"
	"github.com/A-ndrey/spdesk/internal/failure"
	"github.com/A-ndrey/spdesk/internal/model"
	"github.com/A-ndrey/spdesk/internal/storage"
)

func notFound(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return failure.NotFound("server", msg)
	}

	return err
}

func (s *Server) createAbsence(w http.ResponseWriter, r *http.Request) {
	var in model.NewAbsence
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	start, end, status, err := in.Resolve(s.now().UTC())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	abs, err := s.deps.Absences.Create(r.Context(), claims(r).Subject, in, start, end, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "absence_id", abs.ID, "absence", abs)
}

func (s *Server) listAbsences(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Absences.RejectExpired(r.Context(), s.now()); err != nil {
		s.writeError(w, r, err)
		return
	}

	absences, err := s.deps.Absences.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "absences", absences)
}

type absenceStatusRequest struct {
	Status model.AbsenceStatus `json:"status"`
}

func (s *Server) updateAbsence(w http.ResponseWriter, r *http.Request) {
	var req absenceStatusRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Status.Valid() {
		s.writeError(w, r, failure.Validation("server.updateAbsence", "Invalid status"))
		return
	}

	err := s.deps.Absences.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, claims(r).Subject)
	if err != nil {
		s.writeError(w, r, notFound(err, "Absence not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Absence updated successfully")
}

func (s *Server) createNews(w http.ResponseWriter, r *http.Request) {
	var in model.NewNews
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.deps.News.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "news_id", item.ID, "item", item)
}

func (s *Server) listNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.News.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "news", items)
}

func (s *Server) updateNews(w http.ResponseWriter, r *http.Request) {
	var patch model.NewsPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if patch.Empty() {
		s.writeError(w, r, failure.Validation("server.updateNews", "No updates provided"))
		return
	}

	if err := s.deps.News.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, r, notFound(err, "News not found"))
		return
	}

	ok(w, http.StatusOK, "message", "News updated successfully")
}

func (s *Server) deleteNews(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.News.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, notFound(err, "News not found"))
		return
	}

	ok(w, http.StatusOK, "message", "News deleted successfully")
}

func (s *Server) createBlogPost(w http.ResponseWriter, r *http.Request) {
	var in model.NewBlogPost
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.deps.Blog.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "post_id", post.ID, "slug", post.Slug, "post", post)
}

func (s *Server) listBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.deps.Blog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "posts", posts)
}

func (s *Server) updateBlogPost(w http.ResponseWriter, r *http.Request) {
	const op = "server.updateBlogPost"

	var patch model.BlogPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if patch.Empty() {
		s.writeError(w, r, failure.Validation(op, "No updates provided"))
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Blog.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, r, notFound(err, "Post not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Post updated successfully")
}

func (s *Server) deleteBlogPost(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Blog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, notFound(err, "Post not found"))
		return
	}

	ok(w, http.StatusOK, "message", "Post deleted successfully")
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.deps.Accounts.ListMembers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "members", members)
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var req auth.NewMember
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Accounts.CreateMember(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "user", user)
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	var req auth.MemberPatch
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Accounts.UpdateMember(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "Member updated successfully")
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.DeleteMember(r.Context(), claims(r).Subject, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "Member deleted successfully")
}
