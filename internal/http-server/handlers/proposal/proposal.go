package proposal

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/http-server/middleware/metrics"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List supports ?lead_id=.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.proposal"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		proposals, err := handler.GetProposals(r.Context(), user, r.URL.Query().Get("lead_id"))
		if err != nil {
			logger.With(sl.Err(err)).Error("list proposals")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(proposals))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.proposal"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		proposal, err := handler.GetProposal(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			logger.With(sl.Err(err)).Debug("get proposal")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(proposal))
	}
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.proposal"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var req entity.ProposalRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		proposal, err := handler.CreateProposal(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err)).Warn("create proposal")
			response.Fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(proposal))
	}
}

func Send(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.proposal"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		proposal, err := handler.SendProposal(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			logger.With(sl.Err(err)).Error("send proposal")
			response.Fail(w, r, err)
			return
		}

		metrics.RecordProposal(proposal.SentVia)
		render.JSON(w, r, response.Ok(proposal))
	}
}

type DraftResponse struct {
	Body string `json:"body"`
}

func Draft(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.proposal"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		var req entity.DraftRequest
		if err = render.Bind(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		body, err := handler.DraftProposalBody(r.Context(), user, &req)
		if err != nil {
			logger.With(sl.Err(err)).Error("draft proposal")
			response.Fail(w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(DraftResponse{Body: body}))
	}
}
