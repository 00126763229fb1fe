package lead

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

// List supports ?stage=, ?assigned_to= and ?search= filters.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.lead"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		q := r.URL.Query()
		filter := entity.LeadFilter{
			Stage:      q.Get("stage"),
			AssignedTo: q.Get("assigned_to"),
			Search:     q.Get("search"),
		}
		if filter.Stage != "" {
			st, ok := entity.ParseStage(filter.Stage)
			if !ok {
				response.BadRequest(w, r, "Unknown stage "+filter.Stage)
				return
			}
			filter.Stage = string(st)
		}

		leads, err := handler.GetLeads(r.Context(), user, filter)
		if err != nil {
			logger.With(sl.Err(err)).Error("list leads")
			response.Fail(w, r, err)
			return
		}

		logger.Debug("leads listed", slog.Int("count", len(leads)))
		render.JSON(w, r, response.Ok(leads))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.lead"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		lead, err := handler.GetLead(r.Context(), user, leadID(r))
		if err != nil {
			logger.With(sl.Err(err)).Debug("get lead")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(lead))
	}
}
