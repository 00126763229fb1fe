package user

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		users, err := handler.GetUsers(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("list users")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(users))
	}
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var req entity.CreateUserRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		created, err := handler.CreateUser(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err), slog.String("email", req.Email)).Warn("create user")
			response.Fail(w, r, err)
			return
		}

		logger.Info("user created", slog.String("user", created.ID), slog.String("role", created.Role))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(created))
	}
}
