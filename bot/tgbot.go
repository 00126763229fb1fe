package bot

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

// StatsProvider answers the admin /stats command.
type StatsProvider interface {
	DashboardStats(ctx context.Context, user *entity.UserAuth) (*entity.DashboardStats, error)
}

// TgBot sends error alerts to the admin chat and answers a few admin commands.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	stats       StatsProvider
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) SetStatsProvider(stats StatsProvider) {
	t.stats = stats
}

// Start polls for updates and blocks.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.With(sl.Err(err)).Warn("handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("stats", t.statsCommand))

	updater := ext.NewUpdater(dispatcher, nil)
	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}

	updater.Idle()
	return nil
}

func (t *TgBot) start(b *tgbotapi.Bot, ctx *ext.Context) error {
	_, err := ctx.EffectiveMessage.Reply(b, fmt.Sprintf("chat id: %d", ctx.EffectiveChat.Id), nil)
	return err
}

func (t *TgBot) statsCommand(b *tgbotapi.Bot, ctx *ext.Context) error {
	if ctx.EffectiveChat.Id != t.adminId || t.stats == nil {
		return nil
	}
	admin := &entity.UserAuth{ID: "telegram", Name: "telegram", Role: entity.AdminRole}
	stats, err := t.stats.DashboardStats(context.Background(), admin)
	if err != nil {
		return err
	}
	t.plainResponse(t.adminId, FormatStats(stats))
	return nil
}

// FormatStats renders the dashboard as a short text block.
func FormatStats(s *entity.DashboardStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leads: %d\n", s.TotalLeads)
	for _, st := range entity.Stages {
		fmt.Fprintf(&b, "  %s: %d\n", st, s.LeadsByStage[st])
	}
	fmt.Fprintf(&b, "Conversion: %.2f%%\n", s.ConversionRate)
	fmt.Fprintf(&b, "Revenue: %.2f\n", s.TotalRevenue)
	fmt.Fprintf(&b, "Pipeline: %.2f\n", s.PipelineValue)
	fmt.Fprintf(&b, "Calls today: %d", s.CallsToday)
	return b.String()
}

// SendMessage satisfies logger.Notifier.
func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(slog.Int64("id", chatId)).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
		}
	}
}

// sanitize escapes MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reservedChars = "\\`_{}#+-.!|()[]*~>=%"
	var b strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
