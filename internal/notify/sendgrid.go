package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendGridSink struct {
	key  string
	host string
	from *sgmail.Email
}

// NewSendGridSink sends mail through the SendGrid v3 API. An empty host
// means the public API.
func NewSendGridSink(key, host, fromName, fromEmail string) *SendGridSink {
	if host == "" {
		host = sendgridHost
	}
	return &SendGridSink{
		key:  key,
		host: host,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendGridSink) prepare(n domain.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = n.Subject
	p.AddTos(sgmail.NewEmail("", n.Recipient))
	for _, cc := range n.Cc {
		p.AddCCs(sgmail.NewEmail("", cc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", n.Body))

	if n.Attachment != nil {
		m.AddAttachment(&sgmail.Attachment{
			Content:     base64.StdEncoding.EncodeToString(n.Attachment.Content),
			Type:        "application/octet-stream",
			Filename:    n.Attachment.Filename,
			Disposition: "attachment",
		})
	}
	return m
}

func (s *SendGridSink) Send(_ context.Context, n domain.Notification) error {
	req := sendgrid.GetRequest(s.key, sendgridEndpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(n))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errdefs.ErrTransportFailure, err)
	}
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: sendgrid status %d", errdefs.ErrAuthFailure, res.StatusCode)
	case res.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: sendgrid status %d: %s", errdefs.ErrTransportFailure, res.StatusCode, res.Body)
	}
	return nil
}
