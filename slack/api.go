// Package slack sends alerts to a Slack channel through chat.postMessage.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lagren/checkinguard/notify"
	slackapi "github.com/slack-go/slack"
)

type Client struct {
	api       *slackapi.Client
	channelID string
}

func New(token, channelID string, options ...slackapi.Option) *Client {
	options = append([]slackapi.Option{
		slackapi.OptionHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	}, options...)

	return &Client{
		api:       slackapi.New(token, options...),
		channelID: channelID,
	}
}

func (c *Client) Send(ctx context.Context, title, message string, priority notify.Priority) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channelID, slackapi.MsgOptionText(text(title, message, priority), false))
	if err != nil {
		var serr slackapi.SlackErrorResponse
		if errors.As(err, &serr) {
			return &notify.Error{Service: "slack", Reason: serr.Err}
		}

		return &notify.Error{Service: "slack", Err: err}
	}

	return nil
}

// text renders the alert as Slack mrkdwn. High priority alerts ping the channel.
func text(title, message string, priority notify.Priority) string {
	s := fmt.Sprintf("*%s*\n%s", title, message)

	if priority >= notify.PriorityHigh {
		s = "<!channel> " + s
	}

	return s
}
