package email

import (
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Sent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.email"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		emails, err := handler.GetSentEmails(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("list sent emails")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(emails))
	}
}

// Inbox fetches the shared mailbox; ?limit= caps the message count.
func Inbox(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.email"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var limit uint32
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				response.BadRequest(w, r, "limit must be a positive number")
				return
			}
			limit = uint32(n)
		}

		messages, err := handler.FetchInbox(r.Context(), user, limit)
		if err != nil {
			logger.With(sl.Err(err)).Error("fetch inbox")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(messages))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.email"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		if err = handler.DeleteEmail(r.Context(), user, chi.URLParam(r, "id")); err != nil {
			logger.With(sl.Err(err)).Warn("delete email")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok("email deleted"))
	}
}
