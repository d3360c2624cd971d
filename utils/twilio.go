package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioSMS sends one-time passwords by SMS. With no credentials it only logs the
// message, which is how local development runs.
type TwilioSMS struct {
	accountSID string
	from       string
	client     *resty.Client
}

func NewTwilioSMS(accountSID, authToken, from, baseURL string) *TwilioSMS {
	if baseURL == "" {
		baseURL = twilioBaseURL
	}
	return &TwilioSMS{
		accountSID: accountSID,
		from:       from,
		client: resty.New().
			SetBaseURL(baseURL).
			SetBasicAuth(accountSID, authToken).
			SetTimeout(15 * time.Second),
	}
}

func (t *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	if t.accountSID == "" || t.from == "" {
		logrus.WithField("to", to).Debugf("sms disabled, message: %s", body)
		return nil
	}
	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": t.from,
			"Body": body,
		}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", t.accountSID))
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio send failed with status %d: %s",
			resp.StatusCode(), gjson.GetBytes(resp.Body(), "message").String())
	}
	return nil
}
