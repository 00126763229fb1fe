package attendance

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

func Mark(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.attendance"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var req entity.MarkAttendanceRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		record, err := handler.MarkAttendance(r.Context(), user, req.Type)
		if err != nil {
			logger.With(sl.Err(err)).Error("mark attendance")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(record))
	}
}

// List supports ?user_id=, ?from= and ?to= (YYYY-MM-DD).
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.attendance"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		q := r.URL.Query()
		records, err := handler.GetAttendance(r.Context(), user, q.Get("user_id"), q.Get("from"), q.Get("to"))
		if err != nil {
			logger.With(sl.Err(err)).Warn("list attendance")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(records))
	}
}

func Summary(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.attendance"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		q := r.URL.Query()
		summary, err := handler.GetAttendanceSummary(r.Context(), user, q.Get("user_id"), q.Get("from"), q.Get("to"))
		if err != nil {
			logger.With(sl.Err(err)).Warn("attendance summary")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(summary))
	}
}

type ClearResponse struct {
	Deleted int64 `json:"deleted"`
}

// Clear removes attendance records, for ?user_id= or for everyone.
func Clear(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.attendance"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		deleted, err := handler.ClearAttendance(r.Context(), user, r.URL.Query().Get("user_id"))
		if err != nil {
			logger.With(sl.Err(err)).Warn("clear attendance")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(ClearResponse{Deleted: deleted}))
	}
}
