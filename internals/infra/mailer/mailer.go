// Package mailer sends transactional mail (password reset links).
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer, or a Console mailer when apiKey is empty.
func New(apiKey, fromName, fromEmail string) Mailer {
	if apiKey == "" {
		log.Println("[MAIL] SENDGRID_API_KEY not set - mails are printed to the log")
		return &Console{}
	}
	return NewSendGrid(apiKey, fromName, fromEmail)
}

/* =========================
   SendGrid
========================= */

var (
	sgHost     = "https://api.sendgrid.com"
	sgEndpoint = "/v3/mail/send"
)

type SendGrid struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
}

func NewSendGrid(apiKey, fromName, fromEmail string) *SendGrid {
	return &SendGrid{
		key:        apiKey,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: "[EduDBT] ",
	}
}

func (s *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(s.key, sgEndpoint, sgHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

/* =========================
   Console
========================= */

// Console logs mails instead of sending them and keeps them for inspection.
type Console struct {
	mu   sync.Mutex
	sent []Message
}

func (c *Console) Send(_ context.Context, msg Message) error {
	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()
	log.Printf("[MAIL] to=%s subject=%q\n%s", msg.ToEmail, msg.Subject, msg.Text)
	return nil
}

func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}
