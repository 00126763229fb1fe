package activity

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ParseFilter reads the optional ?from=, ?to= (RFC 3339 or YYYY-MM-DD),
// ?entity=, ?entity_id=, ?user_id= and ?limit= parameters. Without any of
// them the whole log is returned.
func ParseFilter(r *http.Request) (entity.ActivityFilter, error) {
	q := r.URL.Query()
	filter := entity.ActivityFilter{
		Entity:   q.Get("entity"),
		EntityID: q.Get("entity_id"),
		UserID:   q.Get("user_id"),
	}

	var err error
	if filter.From, err = parseTime(q.Get("from"), false); err != nil {
		return filter, entity.NewValidationError("from", err.Error())
	}
	if filter.To, err = parseTime(q.Get("to"), true); err != nil {
		return filter, entity.NewValidationError("to", err.Error())
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			return filter, entity.NewValidationError("limit", "limit must be a positive number")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// parseTime accepts a timestamp or a date; a date as upper bound covers the
// whole day.
func parseTime(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(entity.DateLayout, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.activity"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		filter, err := ParseFilter(r)
		if err != nil {
			response.Fail(w, r, err)
			return
		}

		logs, err := handler.GetAllActivities(r.Context(), user, filter)
		if err != nil {
			logger.With(sl.Err(err)).Error("list activities")
			response.Fail(w, r, err)
			return
		}

		logger.Debug("activities listed", slog.Int("count", len(logs)))
		render.JSON(w, r, response.Ok(logs))
	}
}
