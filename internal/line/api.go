package line

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/naseer2426/skybot/internal/config"
	"github.com/naseer2426/skybot/internal/provider"
)

// MaxMessages is the most messages one reply or push call accepts.
const MaxMessages = 5

type LineAPI struct {
	token  string
	client *resty.Client
}

func NewLineAPI(cfg config.LINE) *LineAPI {
	return &LineAPI{
		token:  cfg.ChannelAccessToken,
		client: provider.NewClient(cfg.APIHost),
	}
}

// ReplyMessage answers a webhook event using its reply token.
func (l *LineAPI) ReplyMessage(requestID, replyToken string, messages []OutboundMessage) error {
	if replyToken == "" {
		return fmt.Errorf("reply token is empty")
	}
	return l.send(requestID, "/v2/bot/message/reply", ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}, len(messages))
}

// PushMessage sends messages to a user, group or room without a reply token.
func (l *LineAPI) PushMessage(requestID, to string, messages []OutboundMessage) error {
	if to == "" {
		return fmt.Errorf("push recipient is empty")
	}
	return l.send(requestID, "/v2/bot/message/push", PushMessageRequest{
		To:       to,
		Messages: messages,
	}, len(messages))
}

func (l *LineAPI) send(requestID, path string, body any, count int) error {
	if l.token == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}
	if count == 0 || count > MaxMessages {
		return fmt.Errorf("line accepts 1 to %d messages per call, got %d", MaxMessages, count)
	}

	resp, err := l.client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-ID", requestID).
		SetAuthToken(l.token).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("http call to line failed: %w", err)
	}
	return provider.CheckStatus("line", resp)
}
