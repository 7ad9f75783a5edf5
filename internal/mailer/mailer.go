package mailer

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer delivers a message. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig holds the relay credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
}

// SMTPMailer implements Mailer over an authenticated SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.User,
		name:   cfg.FromName,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := buildMessage(m.from, m.name, msg)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	log.Printf("[Mailer] Sent %q to %s with %d attachment(s)", msg.Subject, msg.To, len(msg.Attachments))
	return nil
}

func buildMessage(from, name string, msg *Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", from, name)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		gm.Attach(a.Filename, settings...)
	}
	return gm
}

// LogMailer is a mock implementation that records messages and logs them
// instead of sending. Used when SMTP is not configured, and in tests.
type LogMailer struct {
	mu   sync.Mutex
	sent []*Message
	Err  error
}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, msg *Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	log.Printf("[Mailer] MOCK: would send %q to %s (%d attachment(s))", msg.Subject, msg.To, len(msg.Attachments))
	return nil
}

// Sent returns the messages recorded so far.
func (m *LogMailer) Sent() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Message(nil), m.sent...)
}
