package api

import (
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/http-server/handlers/activity"
	"BizDevCRM/internal/http-server/handlers/attendance"
	"BizDevCRM/internal/http-server/handlers/auth"
	"BizDevCRM/internal/http-server/handlers/dashboard"
	"BizDevCRM/internal/http-server/handlers/email"
	"BizDevCRM/internal/http-server/handlers/errors"
	"BizDevCRM/internal/http-server/handlers/file"
	"BizDevCRM/internal/http-server/handlers/lead"
	"BizDevCRM/internal/http-server/handlers/message"
	"BizDevCRM/internal/http-server/handlers/proposal"
	"BizDevCRM/internal/http-server/handlers/report"
	"BizDevCRM/internal/http-server/handlers/task"
	"BizDevCRM/internal/http-server/handlers/user"
	"BizDevCRM/internal/http-server/middleware/authenticate"
	"BizDevCRM/internal/http-server/middleware/metrics"
	"BizDevCRM/internal/http-server/middleware/timeout"
	"BizDevCRM/internal/lib/sl"
	"BizDevCRM/internal/ws"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	auth.Core
	lead.Core
	task.Core
	proposal.Core
	activity.Core
	attendance.Core
	email.Core
	message.Core
	user.Core
	dashboard.Core
	report.Core
	file.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, signer file.Verifier) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := NewRouter(conf, log, handler, hub, signer)

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}

// NewRouter builds the full route tree; the websocket route stays outside the
// request timeout.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, signer file.Verifier) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   conf.Listen.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Handle("/metrics", metrics.Handler())
	if hub != nil {
		router.Get("/api/ws", ws.ServeWs(hub, handler, log))
	}

	router.Group(func(r chi.Router) {
		r.Use(timeout.Timeout(conf.Listen.TimeoutSec))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// public
		r.Group(func(pub chi.Router) {
			pub.Use(authenticate.Log(log))
			pub.Post("/api/auth/login", auth.Login(log, handler))
			pub.Get("/api/files/{id}", file.Download(log, handler, signer, handler))
		})

		r.Group(func(api chi.Router) {
			api.Use(authenticate.New(log, handler))

			api.Route("/api/auth", func(r chi.Router) {
				r.Post("/logout", auth.Logout(log, handler))
				r.Get("/me", auth.Me(log, handler))
			})
			api.Route("/api/leads", func(r chi.Router) {
				r.Get("/", lead.List(log, handler))
				r.Post("/", lead.Create(log, handler))
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", lead.Get(log, handler))
					r.Put("/", lead.Update(log, handler))
					r.Delete("/", lead.Delete(log, handler))
					r.Put("/stage", lead.ChangeStage(log, handler))
					r.Post("/addnewremark", lead.AddRemark(log, handler))
					r.Delete("/remarks/{remarkId}", lead.DeleteRemark(log, handler))
					r.Post("/contacts", lead.AddContact(log, handler))
					r.Delete("/contacts/{contactId}", lead.DeleteContact(log, handler))
				})
			})
			api.Route("/api/tasks", func(r chi.Router) {
				r.Get("/", task.List(log, handler))
				r.Post("/", task.Create(log, handler))
				r.Get("/lead/{leadId}", task.ListByLead(log, handler))
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", task.Get(log, handler))
					r.Put("/", task.Update(log, handler))
					r.Delete("/", task.Delete(log, handler))
					r.Put("/toggle", task.Toggle(log, handler))
				})
			})
			api.Route("/api/proposals", func(r chi.Router) {
				r.Get("/", proposal.List(log, handler))
				r.Post("/", proposal.Create(log, handler))
				r.Post("/draft", proposal.Draft(log, handler))
				r.Get("/{id}", proposal.Get(log, handler))
				r.Post("/{id}/send", proposal.Send(log, handler))
			})
			api.Get("/api/activitylogs/activities", activity.List(log, handler))
			api.Route("/api/attendance", func(r chi.Router) {
				r.Get("/", attendance.List(log, handler))
				r.Post("/mark", attendance.Mark(log, handler))
				r.Get("/summary", attendance.Summary(log, handler))
				r.Delete("/clear", attendance.Clear(log, handler))
			})
			api.Route("/api/emails", func(r chi.Router) {
				r.Post("/send-email", email.Send(log, handler))
				r.Get("/sent", email.Sent(log, handler))
				r.Get("/inbox", email.Inbox(log, handler))
				r.Delete("/{id}", email.Delete(log, handler))
			})
			api.Route("/api/messages", func(r chi.Router) {
				r.Get("/", message.List(log, handler))
				r.Post("/", message.Send(log, handler))
				r.Put("/{id}/read", message.Read(log, handler))
			})
			api.Route("/api/users", func(r chi.Router) {
				r.Get("/", user.List(log, handler))
				r.Post("/", user.Create(log, handler))
				r.Get("/calls-batch", user.CallsBatch(log, handler))
				r.Post("/log", user.LogCall(log, handler))
			})
			api.Get("/api/dashboard/stats", dashboard.Stats(log, handler))
			api.Route("/api/reports", func(r chi.Router) {
				r.Get("/leads", report.Leads(log, handler))
				r.Get("/activities", report.Activities(log, handler))
				r.Get("/attendance", report.Attendance(log, handler))
			})
		})
	})

	return router
}
