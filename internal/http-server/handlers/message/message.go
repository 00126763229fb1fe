package message

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

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.message"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		messages, err := handler.GetMessages(r.Context(), user)
		if err != nil {
			logger.With(sl.Err(err)).Error("list messages")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(messages))
	}
}

// Send posts a direct message, or a broadcast when recipientId is "ALL".
func Send(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.message"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var req entity.MessageRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		msg, err := handler.SendInternalMessage(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err), slog.String("recipient", req.RecipientID)).Warn("send message")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(msg))
	}
}

func Read(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.message"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		if err = handler.MarkMessageRead(r.Context(), user, chi.URLParam(r, "id")); err != nil {
			logger.With(sl.Err(err)).Warn("mark message read")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok("message read"))
	}
}
