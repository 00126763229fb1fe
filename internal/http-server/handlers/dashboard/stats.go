package dashboard

import (
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Stats(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.dashboard"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		stats, err := handler.DashboardStats(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("dashboard stats")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(stats))
	}
}
