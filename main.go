package main

import (
	"BizDevCRM/bot"
	"BizDevCRM/impl/core"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/database"
	"BizDevCRM/internal/http-server/api"
	"BizDevCRM/internal/lib/fileurl"
	"BizDevCRM/internal/lib/logger"
	"BizDevCRM/internal/lib/sl"
	"BizDevCRM/internal/service/auth"
	"BizDevCRM/internal/service/drafter"
	"BizDevCRM/internal/service/events"
	"BizDevCRM/internal/service/mailer"
	"BizDevCRM/internal/service/whatsapp"
	"BizDevCRM/internal/ws"
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	// secrets may come from .env; a missing file is fine
	_ = godotenv.Load()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	lg.Info("starting bizdevcrm", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetMaxFileSize(conf.MaxFileSize())

	authService := auth.NewAuthService(conf.Auth.Secret, conf.Auth.TokenTTL, lg)
	handler.SetAuthService(authService)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
		return
	}
	if db == nil {
		lg.Error("mongo is disabled; the crm cannot run without a database")
		return
	}
	authService.SetRepository(db)
	handler.SetRepository(db)
	handler.SetFileStore(db)
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("user", conf.Mongo.User),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err = db.EnsureIndexes(ctx); err != nil {
		lg.With(sl.Err(err)).Warn("ensure indexes")
	}
	cancel()

	handler.SetMailer(mailer.New(conf, lg))
	lg.With(
		slog.String("smtp", conf.SMTP.Host),
		slog.Bool("imap", conf.IMAP.Enabled),
	).Info("mailer initialized")

	if wa := whatsapp.NewService(conf, lg); wa != nil {
		handler.SetWhatsApp(wa)
		lg.With(slog.String("phone_id", conf.WhatsApp.PhoneID)).Info("whatsapp sender initialized")
	}

	if dr := drafter.New(conf, lg); dr != nil {
		handler.SetDrafter(dr)
		lg.With(
			sl.Secret("openai_key", conf.OpenAI.ApiKey),
			slog.String("model", conf.OpenAI.Model),
		).Info("proposal drafter initialized")
	}

	publisher, err := events.NewPublisher(conf, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("activity publisher")
	}
	if publisher != nil {
		defer publisher.Close()
		handler.SetEventPublisher(publisher)
		lg.With(slog.String("exchange", conf.RabbitMQ.Exchange)).Info("activity publisher initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run()
	handler.SetNotifier(hub)

	signer := fileurl.NewSigner(conf.Files.Secret, conf.Files.UrlTTL)
	handler.SetFileSigner(signer)

	if tgBot != nil {
		tgBot.SetStatsProvider(handler)
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub, signer)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
