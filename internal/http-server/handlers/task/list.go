package task

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List supports ?user_id=, ?lead_id=, ?type=, ?bucket= and ?search=.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.task"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		q := r.URL.Query()
		tasks, err := handler.GetTasks(r.Context(), user, entity.TaskFilter{
			UserID: q.Get("user_id"),
			LeadID: q.Get("lead_id"),
			Type:   q.Get("type"),
			Bucket: q.Get("bucket"),
			Search: q.Get("search"),
		})
		if err != nil {
			logger.With(sl.Err(err)).Error("list tasks")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(tasks))
	}
}

func ListByLead(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.task"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		leadID := chi.URLParam(r, "leadId")
		tasks, err := handler.GetTasksByLead(r.Context(), user, leadID)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID)).Error("list lead tasks")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(tasks))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.task"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		task, err := handler.GetTask(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			logger.With(sl.Err(err)).Debug("get task")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(task))
	}
}
