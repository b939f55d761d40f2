package notify

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

type sendgridNotifier struct {
	config *config.SendGridConfig
}

func NewSendGridNotifier(cfg *config.SendGridConfig) interfaces.Notifier {
	return &sendgridNotifier{
		config: cfg,
	}
}

// SendApplicationConfirmation emails the applicant that their submission was
// received. Callers treat failures as non-fatal.
func (s *sendgridNotifier) SendApplicationConfirmation(ctx context.Context, toAddress, toName, jobTitle string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "sendgridNotifier.SendApplicationConfirmation")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("to", toAddress)

	if s.config.ApiKey == "" {
		return fmt.Errorf("SendGrid API key not configured")
	}

	from := mail.NewEmail(s.config.FromName, s.config.FromEmail)
	to := mail.NewEmail(toName, toAddress)

	subject := "We received your application"
	if jobTitle != "" {
		subject = fmt.Sprintf("We received your application for %s", jobTitle)
	}

	body := fmt.Sprintf(`Hi %s,

Thank you for your application. Our team will review it and get back to you.

Best regards,
%s`, firstNonEmpty(toName, "there"), s.config.FromName)

	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.config.ApiKey)
	response, err := client.Send(message)
	if err != nil {
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		err = fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
