package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/naseer2426/skybot/internal/db"
	"github.com/naseer2426/skybot/internal/line"
	"github.com/naseer2426/skybot/internal/skybot"
)

const signatureHeader = "X-Line-Signature"

type Dispatcher interface {
	HandleEvent(requestID string, ev skybot.Event) []skybot.Reply
	AQIMessages(requestID string) ([]line.OutboundMessage, error)
}

type Messenger interface {
	ReplyMessage(requestID, replyToken string, messages []line.OutboundMessage) error
	PushMessage(requestID, to string, messages []line.OutboundMessage) error
}

type Journal interface {
	Record(d *db.Delivery) error
}

type LineWebhook struct {
	SkyBot        Dispatcher
	LineAPI       Messenger
	Journal       Journal
	ChannelSecret string
	Logger        *slog.Logger
}

// LineWebhook verifies and handles a webhook delivery. Anything that goes
// wrong after the signature check is logged and still answered with 200 so
// the platform does not redeliver.
func (l *LineWebhook) LineWebhook(c *gin.Context) {
	requestID := requestid.Get(c)
	body, err := c.GetRawData()
	if err != nil {
		l.Logger.Error("read webhook body failed", "request_id", requestID, "error", err)
		c.String(http.StatusBadRequest, "failed to read body")
		return
	}
	if !line.VerifySignature(l.ChannelSecret, body, c.GetHeader(signatureHeader)) {
		l.Logger.Warn("invalid webhook signature", "request_id", requestID)
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	update, err := l.parseBody(body)
	if err != nil {
		l.Logger.Error("parse webhook body failed", "request_id", requestID, "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	for i, event := range update.Events {
		eventID := requestID
		if len(update.Events) > 1 {
			eventID = fmt.Sprintf("%s-%d", requestID, i)
		}
		l.handleEvent(eventID, event)
	}
	c.String(http.StatusOK, "OK")
}

func (l *LineWebhook) parseBody(body []byte) (*line.WebhookBody, error) {
	var update line.WebhookBody
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, fmt.Errorf("invalid payload - %s", string(body))
	}
	return &update, nil
}

func (l *LineWebhook) handleEvent(requestID string, event line.Event) {
	ev, ok := preProcessEvent(event)
	if !ok {
		l.Logger.Debug("event ignored", "request_id", requestID, "type", event.Type)
		return
	}
	l.Logger.Info("handling event", "request_id", requestID, "kind", ev.Kind.String(), "source", event.Source.ID())

	replies := l.SkyBot.HandleEvent(requestID, ev)
	failed := 0
	// every batch is its own call, an earlier success stays sent
	for _, reply := range replies {
		if err := l.LineAPI.ReplyMessage(requestID, event.ReplyToken, reply); err != nil {
			failed++
			l.Logger.Error("line reply failed", "request_id", requestID, "error", err)
		}
	}

	delivery := &db.Delivery{
		RequestID:   requestID,
		EventKind:   ev.Kind.String(),
		SourceID:    event.Source.ID(),
		Payload:     payloadOf(ev),
		Replies:     len(replies),
		FailedSends: failed,
	}
	if l.Journal == nil {
		return
	}
	if err := l.Journal.Record(delivery); err != nil {
		l.Logger.Warn("journal write failed", "request_id", requestID, "error", err)
	}
}

// preProcessEvent maps the events the bot understands onto skybot events.
func preProcessEvent(event line.Event) (skybot.Event, bool) {
	switch event.Type {
	case line.EventMessage:
		if event.Message == nil {
			return skybot.Event{}, false
		}
		switch event.Message.Type {
		case line.MessageText:
			return skybot.TextEvent(event.Message.Text), true
		case line.MessageLocation:
			return skybot.LocationEvent(event.Message.Latitude, event.Message.Longitude), true
		}
	case line.EventPostback:
		if event.Postback != nil {
			return skybot.CallbackEvent(event.Postback.Data), true
		}
	}
	return skybot.Event{}, false
}

func payloadOf(ev skybot.Event) string {
	switch ev.Kind {
	case skybot.KindLocation:
		return fmt.Sprintf("%v,%v", ev.Lat, ev.Lng)
	case skybot.KindCallback:
		return ev.Data
	}
	return ev.Text
}

// PushAQI pushes the current AQI card to the recipient given by ?id=.
func (l *LineWebhook) PushAQI(c *gin.Context) {
	requestID := requestid.Get(c)
	to := c.Query("id")
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	l.Logger.Info("push aqi", "request_id", requestID, "to", to)

	messages, err := l.SkyBot.AQIMessages(requestID)
	if err != nil {
		l.Logger.Error("build aqi push failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to build aqi message"})
		return
	}
	if err := l.LineAPI.PushMessage(requestID, to, messages); err != nil {
		l.Logger.Error("line push failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to push aqi message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
