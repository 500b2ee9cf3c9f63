// Package twilio delivers operator alerts as SMS messages.
package twilio

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/okanita/vira/pkg/errorsx"
)

type Config struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

type messageCreator interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

// Notifier sends one SMS per alert through the Twilio REST API.
type Notifier struct {
	cfg    Config
	client messageCreator
}

func New(cfg Config) (*Notifier, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("missing twilio credentials")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("missing twilio from/to numbers")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Notifier{cfg: cfg, client: client.Api}, nil
}

func (n *Notifier) Name() string { return "twilio_sms" }

func (n *Notifier) Notify(ctx context.Context, event, detail string) error {
	_ = ctx
	params := &api.CreateMessageParams{}
	params.SetFrom(n.cfg.From)
	params.SetTo(n.cfg.To)
	params.SetBody(fmt.Sprintf("[vira] %s: %s", event, detail))
	if _, err := n.client.CreateMessage(params); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonNotify)
	}
	return nil
}
