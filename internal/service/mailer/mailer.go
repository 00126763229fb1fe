package mailer

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
)

type credential struct {
	username string
	password string
}

type Service struct {
	host    string
	port    int
	company credential
	from    string
	timeout time.Duration
	imap    imapConfig
	log     *slog.Logger
}

func New(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		host: conf.SMTP.Host,
		port: conf.SMTP.Port,
		company: credential{
			username: conf.SMTP.User,
			password: conf.SMTP.Password,
		},
		from:    conf.SMTP.From,
		timeout: conf.SMTP.Timeout,
		imap: imapConfig{
			enabled:  conf.IMAP.Enabled,
			address:  fmt.Sprintf("%s:%d", conf.IMAP.Host, conf.IMAP.Port),
			user:     conf.IMAP.User,
			password: conf.IMAP.Password,
			mailbox:  conf.IMAP.Mailbox,
			maxFetch: conf.IMAP.MaxFetch,
			timeout:  conf.IMAP.Timeout,
		},
		log: logger.With(sl.Module("mailer")),
	}
}

func buildMessage(mail *entity.OutgoingMail) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", mail.From)
	m.SetHeader("To", mail.To...)
	if len(mail.Cc) > 0 {
		m.SetHeader("Cc", mail.Cc...)
	}
	m.SetHeader("Subject", mail.Subject)
	if mail.HTML {
		m.SetBody("text/html", mail.Body)
	} else {
		m.SetBody("text/plain", mail.Body)
	}
	for _, a := range mail.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.MIMEType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.MIMEType}}))
		}
		m.Attach(a.Filename, settings...)
	}
	return m
}

// Send delivers mail with the given SMTP login. gomail has no context
// support, so the dial runs aside and the wait is bounded by ctx and the
// configured timeout.
func (s *Service) Send(ctx context.Context, username, password string, mail *entity.OutgoingMail) error {
	if len(mail.To) == 0 {
		return entity.NewValidationError("to", "at least one recipient is required")
	}
	if s.host == "" {
		return fmt.Errorf("smtp: %w", entity.ErrNotConfigured)
	}

	m := buildMessage(mail)
	d := gomail.NewDialer(s.host, s.port, username, password)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.With(
				slog.String("from", mail.From),
				slog.Int("recipients", len(mail.To)),
				sl.Err(err),
			).Warn("smtp send failed")
			return fmt.Errorf("smtp send: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}

	s.log.With(
		slog.String("from", mail.From),
		slog.Int("recipients", len(mail.To)),
		slog.Int("attachments", len(mail.Attachments)),
	).Debug("email sent")
	return nil
}

// SendAsCompany sends from the configured company mailbox.
func (s *Service) SendAsCompany(ctx context.Context, mail *entity.OutgoingMail) error {
	if s.company.username == "" {
		return fmt.Errorf("company smtp account: %w", entity.ErrNotConfigured)
	}
	if mail.From == "" {
		mail.From = s.from
		if mail.From == "" {
			mail.From = s.company.username
		}
	}
	return s.Send(ctx, s.company.username, s.company.password, mail)
}
