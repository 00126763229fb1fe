package report

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/http-server/handlers/activity"
	"BizDevCRM/internal/lib/api/cont"
	"BizDevCRM/internal/lib/api/response"
	xlsx "BizDevCRM/internal/lib/report"
	"BizDevCRM/internal/lib/sl"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/xuri/excelize/v2"
)

func Leads(log *slog.Logger, handler Core) http.HandlerFunc {
	return export(log, "leads", func(r *http.Request, user *entity.UserAuth) (*excelize.File, error) {
		q := r.URL.Query()
		leads, err := handler.GetLeads(r.Context(), user, entity.LeadFilter{
			Stage:      q.Get("stage"),
			AssignedTo: q.Get("assigned_to"),
			Search:     q.Get("search"),
		})
		if err != nil {
			return nil, err
		}
		return xlsx.Leads(leads)
	})
}

// Activities accepts the same filters as the activity feed.
func Activities(log *slog.Logger, handler Core) http.HandlerFunc {
	return export(log, "activities", func(r *http.Request, user *entity.UserAuth) (*excelize.File, error) {
		filter, err := activity.ParseFilter(r)
		if err != nil {
			return nil, err
		}
		logs, err := handler.GetAllActivities(r.Context(), user, filter)
		if err != nil {
			return nil, err
		}
		return xlsx.Activities(logs)
	})
}

func Attendance(log *slog.Logger, handler Core) http.HandlerFunc {
	return export(log, "attendance", func(r *http.Request, user *entity.UserAuth) (*excelize.File, error) {
		q := r.URL.Query()
		records, err := handler.GetAttendance(r.Context(), user, q.Get("user_id"), q.Get("from"), q.Get("to"))
		if err != nil {
			return nil, err
		}
		return xlsx.Attendance(records)
	})
}

type builder func(r *http.Request, user *entity.UserAuth) (*excelize.File, error)

func export(log *slog.Logger, name string, build builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.report"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("report", name),
		)

		user, err := cont.GetUser(r.Context())
		if err != nil {
			response.Unauthorized(w, r)
			return
		}

		f, err := build(r, user)
		if err != nil {
			logger.With(sl.Err(err)).Error("build report")
			response.Fail(w, r, err)
			return
		}

		filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format(entity.DateLayout))
		w.Header().Set("Content-Type", xlsx.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		if err = xlsx.Write(f, w); err != nil {
			logger.With(sl.Err(err)).Error("write report")
		}
	}
}
