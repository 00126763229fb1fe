package lead

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

func leadID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req entity.LeadRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		lead, err := handler.CreateLead(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err)).Error("create lead")
			response.Fail(w, r, err)
			return
		}

		logger.Info("lead created", slog.String("lead", lead.ID), slog.String("user", user.ID))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(lead))
	}
}

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var patch entity.LeadPatch
		if err = render.Bind(r, &patch); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		lead, err := handler.UpdateLead(r.Context(), user, leadID(r), &patch)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("update lead")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(lead))
	}
}

func ChangeStage(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var req entity.StageRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		lead, err := handler.ChangeStage(r.Context(), user, leadID(r), &req)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("change stage")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(lead))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
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

		if err = handler.DeleteLead(r.Context(), user, leadID(r)); err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("delete lead")
			response.Fail(w, r, err)
			return
		}

		logger.Info("lead deleted", slog.String("lead", leadID(r)), slog.String("user", user.ID))
		render.JSON(w, r, response.Ok("lead deleted"))
	}
}
