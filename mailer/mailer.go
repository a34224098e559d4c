// Package mailer sends the transactional emails. Without a SendGrid key every message is
// logged instead of sent.
package mailer

import (
	"fmt"
	"net/http"

	"coursehub/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(msg Message) error
}

type Mailer struct {
	sender  Sender
	appName string
	log     *logger.Logger
	async   bool
}

type Options struct {
	APIKey      string
	FromEmail   string
	FromName    string
	AppName     string
	Synchronous bool
}

func New(opts Options, log *logger.Logger) *Mailer {
	var sender Sender = logSender{log: log}
	if opts.APIKey != "" {
		sender = &sendgridSender{key: opts.APIKey, from: sgmail.NewEmail(opts.FromName, opts.FromEmail)}
	}
	return NewWithSender(sender, opts.AppName, !opts.Synchronous, log)
}

func NewWithSender(sender Sender, appName string, async bool, log *logger.Logger) *Mailer {
	if appName == "" {
		appName = "CourseHub"
	}
	return &Mailer{sender: sender, appName: appName, log: log, async: async}
}

// dispatch sends in the background unless the mailer was built synchronous.
func (m *Mailer) dispatch(msg Message) {
	if m == nil || msg.ToEmail == "" {
		return
	}
	send := func() {
		if err := m.sender.Send(msg); err != nil {
			m.log.Error("email send failed", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
			return
		}
		m.log.Debug("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	}
	if m.async {
		go send()
		return
	}
	send()
}

type sendgridSender struct {
	key  string
	from *sgmail.Email
}

func (s *sendgridSender) Send(msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

type logSender struct {
	log *logger.Logger
}

func (s logSender) Send(msg Message) error {
	s.log.Info("email (not sent, no provider configured)", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// Outbox collects messages in memory.
type Outbox struct {
	Messages []Message
}

func (o *Outbox) Send(msg Message) error {
	o.Messages = append(o.Messages, msg)
	return nil
}
