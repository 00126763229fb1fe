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

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req entity.TaskRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		task, err := handler.CreateTask(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err)).Warn("create task")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(task))
	}
}

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var patch entity.TaskPatch
		if err = render.Bind(r, &patch); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		task, err := handler.UpdateTask(r.Context(), user, chi.URLParam(r, "id"), &patch)
		if err != nil {
			logger.With(sl.Err(err)).Warn("update task")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(task))
	}
}

func Toggle(log *slog.Logger, handler Core) http.HandlerFunc {
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

		task, err := handler.ToggleTask(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			logger.With(sl.Err(err)).Warn("toggle task")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(task))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
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

		if err = handler.DeleteTask(r.Context(), user, chi.URLParam(r, "id")); err != nil {
			logger.With(sl.Err(err)).Warn("delete task")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok("task deleted"))
	}
}
