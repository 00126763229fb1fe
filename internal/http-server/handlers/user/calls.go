package user

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func LogCall(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req entity.CallLogRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		call, err := handler.LogCall(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err)).Error("log call")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(call))
	}
}

// CallsBatch takes ?userIds=a,b (or repeated), ?from= and ?to= as RFC 3339.
func CallsBatch(log *slog.Logger, handler Core) http.HandlerFunc {
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

		q := r.URL.Query()
		userIDs := splitIDs(q["userIds"])
		var from, to time.Time
		if v := q.Get("from"); v != "" {
			if from, err = time.Parse(time.RFC3339, v); err != nil {
				response.BadRequest(w, r, "from must be an RFC 3339 timestamp")
				return
			}
		}
		if v := q.Get("to"); v != "" {
			if to, err = time.Parse(time.RFC3339, v); err != nil {
				response.BadRequest(w, r, "to must be an RFC 3339 timestamp")
				return
			}
		}

		batch, err := handler.GetCallsBatch(r.Context(), user, userIDs, from, to)
		if err != nil {
			logger.With(sl.Err(err)).Error("calls batch")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(batch))
	}
}

func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
