package mailer

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

type imapConfig struct {
	enabled  bool
	address  string
	user     string
	password string
	mailbox  string
	maxFetch uint32
	timeout  time.Duration
}

// FetchInbox reads the headers of the most recent messages. The window is
// capped by imap.max_fetch; there is no persistent listener.
func (s *Service) FetchInbox(ctx context.Context, limit uint32) ([]entity.InboxMessage, error) {
	if !s.imap.enabled || s.imap.user == "" || s.imap.password == "" {
		return nil, fmt.Errorf("imap: %w", entity.ErrNotConfigured)
	}
	if limit == 0 || limit > s.imap.maxFetch {
		limit = s.imap.maxFetch
	}

	type result struct {
		messages []entity.InboxMessage
		err      error
	}
	done := make(chan result, 1)
	go func() {
		messages, err := s.fetch(limit)
		done <- result{messages, err}
	}()

	select {
	case r := <-done:
		return r.messages, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("imap fetch: %w", ctx.Err())
	}
}

func (s *Service) fetch(limit uint32) ([]entity.InboxMessage, error) {
	c, err := client.DialTLS(s.imap.address, nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial: %w", err)
	}
	c.Timeout = s.imap.timeout
	defer func() {
		if err := c.Logout(); err != nil {
			s.log.With(sl.Err(err)).Debug("imap logout")
		}
	}()

	if err = c.Login(s.imap.user, s.imap.password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	mbox, err := c.Select(s.imap.mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("imap select %s: %w", s.imap.mailbox, err)
	}
	if mbox.Messages == 0 {
		return []entity.InboxMessage{}, nil
	}

	from := uint32(1)
	if mbox.Messages > limit {
		from = mbox.Messages - limit + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid}
	messages := make(chan *imap.Message, 10)
	fetchDone := make(chan error, 1)
	go func() {
		fetchDone <- c.Fetch(seqset, items, messages)
	}()

	inbox := make([]entity.InboxMessage, 0, limit)
	for msg := range messages {
		inbox = append(inbox, toInboxMessage(msg))
	}
	if err = <-fetchDone; err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	sort.Slice(inbox, func(i, j int) bool { return inbox[i].Date.After(inbox[j].Date) })

	s.log.With(
		slog.String("mailbox", s.imap.mailbox),
		slog.Int("count", len(inbox)),
	).Debug("inbox fetched")
	return inbox, nil
}

func toInboxMessage(msg *imap.Message) entity.InboxMessage {
	out := entity.InboxMessage{UID: msg.Uid}
	for _, flag := range msg.Flags {
		if flag == imap.SeenFlag {
			out.Seen = true
		}
	}
	if msg.Envelope == nil {
		return out
	}
	out.Subject = msg.Envelope.Subject
	out.Date = msg.Envelope.Date
	if len(msg.Envelope.From) > 0 {
		out.From = formatAddress(msg.Envelope.From[0])
	}
	for _, addr := range msg.Envelope.To {
		out.To = append(out.To, formatAddress(addr))
	}
	return out
}

func formatAddress(addr *imap.Address) string {
	if addr == nil {
		return ""
	}
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", addr.PersonalName, addr.Address())
	}
	return addr.Address()
}
