package lead

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/form"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type remarkBody struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

func (b *remarkBody) Bind(_ *http.Request) error {
	return nil
}

// AddRemark accepts JSON {content, type} or a multipart form with the same
// fields plus optional "file" and "voice" parts.
func AddRemark(log *slog.Logger, handler Core) http.HandlerFunc {
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

		var in entity.RemarkInput
		var file, voice *entity.Upload

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			limit := handler.MaxFileSize()
			if err = form.Parse(w, r, limit, 2); err != nil {
				response.Fail(w, r, err)
				return
			}
			if file, err = form.Upload(r, "file", limit); err != nil {
				response.Fail(w, r, err)
				return
			}
			if voice, err = form.Upload(r, "voice", limit); err != nil {
				response.Fail(w, r, err)
				return
			}
			in.Content = r.FormValue("content")
			in.Type = r.FormValue("type")
		} else {
			var body remarkBody
			if err = render.Bind(r, &body); err != nil {
				response.BadRequest(w, r, "Invalid request body")
				return
			}
			in.Content = body.Content
			in.Type = body.Type
		}

		remarks, err := handler.AddRemark(r.Context(), user, leadID(r), in, file, voice)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r))).Warn("add remark")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(remarks))
	}
}

func DeleteRemark(log *slog.Logger, handler Core) http.HandlerFunc {
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

		remarkID := chi.URLParam(r, "remarkId")
		remarks, err := handler.DeleteRemark(r.Context(), user, leadID(r), remarkID)
		if err != nil {
			logger.With(sl.Err(err), slog.String("lead", leadID(r)), slog.String("remark", remarkID)).Warn("delete remark")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(remarks))
	}
}
