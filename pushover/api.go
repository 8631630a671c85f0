// Package pushover sends alerts through the Pushover message API.
// See https://pushover.net/api.
package pushover

import (
	"context"
	"time"

	po "github.com/gregdel/pushover"
	"github.com/lagren/checkinguard/notify"
)

const (
	defaultTimeout = 10 * time.Second

	// Emergency messages repeat until acknowledged; Pushover requires both.
	emergencyRetry  = time.Minute
	emergencyExpire = time.Hour
)

type Client struct {
	app       *po.Pushover
	recipient *po.Recipient
	timeout   time.Duration
}

func New(appToken, userKey string) *Client {
	return &Client{
		app:       po.New(appToken),
		recipient: po.NewRecipient(userKey),
		timeout:   defaultTimeout,
	}
}

// Send delivers the message and waits at most the client timeout, or until
// ctx is done, for Pushover to acknowledge it.
func (c *Client) Send(ctx context.Context, title, message string, priority notify.Priority) error {
	msg := po.NewMessageWithTitle(message, title)
	msg.Priority = int(priority)

	if priority == notify.PriorityEmergency {
		msg.Retry = emergencyRetry
		msg.Expire = emergencyExpire
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		_, err := c.app.SendMessage(msg, c.recipient)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return &notify.Error{Service: "pushover", Err: err}
		}

		return nil
	case <-ctx.Done():
		return &notify.Error{Service: "pushover", Err: ctx.Err()}
	}
}
