package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const smsLimit = 320

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSAlerter texts a short alert to a fixed list of moderator phone numbers.
// It ignores Message.To, which holds email addresses.
type SMSAlerter struct {
	api        messageCreator
	from       string
	recipients []string
}

func NewSMSAlerter(accountSID, authToken, from string, recipients []string) *SMSAlerter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSAlerter{api: client.Api, from: from, recipients: recipients}
}

func (s *SMSAlerter) Notify(ctx context.Context, msg Message) error {
	body := []rune(msg.Subject + ": " + msg.Body)
	if len(body) > smsLimit {
		body = append(body[:smsLimit-1], '…')
	}

	var errs []error
	for _, to := range s.recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.from)
		params.SetBody(string(body))
		if _, err := s.api.CreateMessage(params); err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}
