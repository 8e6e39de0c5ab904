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
	errTaskNotFound    = failure.NotFound("server.task", "Task not found")
	errTaskNotAssigned = failure.Forbidden("server.updateTask", "You are not assigned to this task")
)

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var in model.NewTask
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.deps.Tasks.Create(r.Context(), claims(r).Subject, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "task_id", task.ID, "task", task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	var filter model.TaskFilter

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := model.TaskStatus(v)
		if !status.Valid() {
			s.writeError(w, r, failure.Validation("server.listTasks", "Invalid status"))
			return
		}
		filter.Status = &status
	}
	if v := q.Get("assigned_to"); v != "" {
		filter.AssignedTo = &v
	}

	tasks, err := s.deps.Tasks.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "tasks", tasks)
}

func (s *Server) myTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.deps.Tasks.ListMine(r.Context(), claims(r).Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "tasks", tasks)
}

func (s *Server) task(r *http.Request) (model.Task, error) {
	task, err := s.deps.Tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		return model.Task{}, errTaskNotFound
	}

	return task, err
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch model.TaskPatch
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.task(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !task.AssignedTo(claims(r).Subject) {
		s.writeError(w, r, errTaskNotAssigned)
		return
	}

	if err := s.deps.Tasks.Update(r.Context(), task.ID, patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "message", "Task updated successfully")
}

func (s *Server) addTaskComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := model.ValidateComment("server.addTaskComment", req.Comment); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.task(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cm, err := s.deps.Tasks.AddComment(r.Context(), task.ID, claims(r).Subject, req.Comment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusCreated, "comment_id", cm.ID, "comment", cm)
}

func (s *Server) listTaskComments(w http.ResponseWriter, r *http.Request) {
	task, err := s.task(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	comments, err := s.deps.Tasks.ListComments(r.Context(), task.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ok(w, http.StatusOK, "comments", comments)
}
