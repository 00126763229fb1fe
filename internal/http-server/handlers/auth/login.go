package auth

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/http-server/middleware/metrics"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.auth"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.LoginRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Debug("bad login request", sl.Err(err))
			response.BadRequest(w, r, "Email and password are required")
			return
		}

		resp, err := handler.Login(r.Context(), req.Email, req.Password)
		metrics.RecordLogin(err == nil)
		if err != nil {
			logger.With(sl.Err(err)).Warn("login failed")
			response.Fail(w, r, err)
			return
		}

		logger.Debug("login", slog.String("user", resp.User.ID))
		render.JSON(w, r, response.Ok(resp))
	}
}
