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

func AddContact(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var contact entity.PointOfContact
		if err = render.Bind(r, &contact); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		contacts, err := handler.AddPointOfContact(r.Context(), user, leadID(r), &contact)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("add contact")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(contacts))
	}
}

func DeleteContact(log *slog.Logger, handler Core) http.HandlerFunc {
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

		contactID := chi.URLParam(r, "contactId")
		contacts, err := handler.DeletePointOfContact(r.Context(), user, leadID(r), contactID)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("delete contact")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(contacts))
	}
}
