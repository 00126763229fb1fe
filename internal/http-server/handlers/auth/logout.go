package auth

import (
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Logout closes the attendance session. The token stays valid until it
// expires; the client discards it.
func Logout(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		record, err := handler.Logout(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("logout")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(record))
	}
}

func Me(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		me, err := handler.GetMe(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("get me")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(me))
	}
}
