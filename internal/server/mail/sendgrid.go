package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/server/models"
)

// templateCodeKey is the dynamic-template variable the mail template reads
// the code from.
const templateCodeKey = "verificationCode"

// SendGridSender delivers codes through the SendGrid v3 API using a dynamic
// template.
type SendGridSender struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	templateID string
}

func NewSendGridSender(apiKey, fromName, fromAddr, templateID string) *SendGridSender {
	return &SendGridSender{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromAddr),
		templateID: templateID,
	}
}

func (s *SendGridSender) SendVerificationCode(ctx context.Context, u *models.User) error {
	if u.VerificationCode == nil {
		return fmt.Errorf("%w: no pending code for %s", common.ErrDeliveryFailed, u.Email)
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.SetTemplateID(s.templateID)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(u.Username, u.Email))
	p.SetDynamicTemplateData(templateCodeKey, *u.VerificationCode)
	m.AddPersonalizations(p)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeliveryFailed, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid responded %d", common.ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}
