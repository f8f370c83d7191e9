package sendgrid

import (
	"context"
	"fmt"

	"github.com/malaura/storefront/internal/models"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	mailEndpoint = "/v3/mail/send"
)

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
}

type emailService struct {
	client *sg.Client
	from   *mail.Email
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return NewEmailServiceWithHost(apiKey, defaultHost, fromEmail, fromName)
}

// NewEmailServiceWithHost points the client at a different API host, e.g. a local stub.
func NewEmailServiceWithHost(apiKey, host, fromEmail, fromName string) EmailService {
	request := sg.GetRequest(apiKey, mailEndpoint, host)
	request.Method = "POST"

	return &emailService{
		client: &sg.Client{Request: request},
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (e *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	response, err := e.client.SendWithContext(ctx, e.message(req))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func (e *emailService) message(req *models.EmailNotificationRequest) *mail.SGMailV3 {
	p := mail.NewPersonalization()
	p.Subject = req.Subject
	p.AddTos(mail.NewEmail("", req.To))

	for _, addr := range req.CC {
		p.AddCCs(mail.NewEmail("", addr))
	}

	for _, addr := range req.BCC {
		p.AddBCCs(mail.NewEmail("", addr))
	}

	m := mail.NewV3Mail().
		SetFrom(e.from).
		AddPersonalizations(p).
		AddContent(mail.NewContent("text/plain", req.Content))

	if req.HTMLContent != "" {
		m.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	if req.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", req.ReplyTo))
	}

	if len(req.Categories) > 0 {
		m.AddCategories(req.Categories...)
	}

	return m
}
