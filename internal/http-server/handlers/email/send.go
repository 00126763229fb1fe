package email

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/http-server/middleware/metrics"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/form"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const maxAttachments = 10

// Send accepts multipart/form-data with fields from, appPassword, to, cc,
// subject, body, html and files under "attachments".
func Send(log *slog.Logger, handler Core) http.HandlerFunc {
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

		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			response.BadRequest(w, r, "Expected multipart/form-data")
			return
		}

		limit := handler.MaxFileSize()
		if err = form.Parse(w, r, limit, maxAttachments); err != nil {
			response.Fail(w, r, err)
			return
		}
		attachments, err := form.Uploads(r, "attachments", limit)
		if err != nil {
			response.Fail(w, r, err)
			return
		}
		if len(attachments) > maxAttachments {
			response.BadRequest(w, r, "Too many attachments")
			return
		}

		html, _ := strconv.ParseBool(r.FormValue("html"))
		req := &entity.SendEmailRequest{
			From:        strings.TrimSpace(r.FormValue("from")),
			AppPassword: r.FormValue("appPassword"),
			To:          entity.ParseAddressList(r.MultipartForm.Value["to"]...),
			Cc:          entity.ParseAddressList(r.MultipartForm.Value["cc"]...),
			Subject:     r.FormValue("subject"),
			Body:        r.FormValue("body"),
			HTML:        html,
			Attachments: attachments,
		}

		email, err := handler.SendEmail(r.Context(), user, req)
		if email != nil {
			metrics.RecordEmail(email.Status)
		}
		if err != nil {
			logger.With(
				sl.Err(err),
				slog.String("from", req.From),
				slog.Int("recipients", len(req.To)),
			).Warn("send email")
			if email != nil && !entity.IsValidationError(err) {
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Response{Data: email, Success: false, Message: "Email could not be sent"})
				return
			}
			response.Fail(w, r, err)
			return
		}

		logger.Info("email sent", slog.String("email", email.ID), slog.Int("recipients", len(email.To)))
		render.JSON(w, r, response.Ok(email))
	}
}
