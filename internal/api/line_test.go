package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/naseer2426/skybot/internal/db"
	"github.com/naseer2426/skybot/internal/line"
	"github.com/naseer2426/skybot/internal/skybot"
)

const testSecret = "channel-secret"

type fakeBot struct {
	events  []skybot.Event
	replies []skybot.Reply
	aqiErr  error
}

func (f *fakeBot) HandleEvent(_ string, ev skybot.Event) []skybot.Reply {
	f.events = append(f.events, ev)
	return f.replies
}

func (f *fakeBot) AQIMessages(string) ([]line.OutboundMessage, error) {
	if f.aqiErr != nil {
		return nil, f.aqiErr
	}
	return []line.OutboundMessage{&line.TextMessage{Text: "aqi"}}, nil
}

type fakeMessenger struct {
	replyTokens []string
	pushedTo    []string
	failOn      int // 1-based reply call that fails, 0 for none
	pushErr     error
}

func (f *fakeMessenger) ReplyMessage(_ string, replyToken string, _ []line.OutboundMessage) error {
	f.replyTokens = append(f.replyTokens, replyToken)
	if len(f.replyTokens) == f.failOn {
		return errors.New("Invalid reply token")
	}
	return nil
}

func (f *fakeMessenger) PushMessage(_ string, to string, _ []line.OutboundMessage) error {
	f.pushedTo = append(f.pushedTo, to)
	return f.pushErr
}

type fakeJournal struct {
	deliveries []*db.Delivery
}

func (f *fakeJournal) Record(d *db.Delivery) error {
	f.deliveries = append(f.deliveries, d)
	return nil
}

func newRouter(w *LineWebhook) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestid.New())
	router.GET("/", HealthCheck)
	router.POST("/callback", w.LineWebhook)
	router.GET("/aqi", w.PushAQI)
	return router
}

func newWebhook() (*LineWebhook, *fakeBot, *fakeMessenger, *fakeJournal) {
	bot := &fakeBot{}
	messenger := &fakeMessenger{}
	journal := &fakeJournal{}
	return &LineWebhook{
		SkyBot:        bot,
		LineAPI:       messenger,
		Journal:       journal,
		ChannelSecret: testSecret,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, bot, messenger, journal
}

func signedRequest(body string) *http.Request {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewBufferString(body))
	req.Header.Set("X-Line-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return req
}

const textEventBody = `{"events":[{"type":"message","replyToken":"rt-1",
	"source":{"type":"user","userId":"U1"},"message":{"id":"1","type":"text","text":"flight TG123"}}]}`

func TestHealthCheck(t *testing.T) {
	w, _, _, _ := newWebhook()
	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"UP"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestLineWebhook_InvalidSignature(t *testing.T) {
	w, bot, _, _ := newWebhook()
	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewBufferString(textEventBody))
	req.Header.Set("X-Line-Signature", "bm9wZQ==")
	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if len(bot.events) != 0 {
		t.Errorf("bot should not see unsigned events")
	}
}

func TestLineWebhook_SendsEveryReplyBatch(t *testing.T) {
	w, bot, messenger, journal := newWebhook()
	bot.replies = []skybot.Reply{
		{&line.FlexMessage{AltText: "Flight Information"}},
		{&line.TextMessage{Text: "Sorry"}},
	}
	messenger.failOn = 2

	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, signedRequest(textEventBody))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %s", rec.Code, rec.Body.String())
	}
	if len(bot.events) != 1 || bot.events[0].Kind != skybot.KindText || bot.events[0].Text != "flight TG123" {
		t.Fatalf("unexpected events %+v", bot.events)
	}
	if len(messenger.replyTokens) != 2 || messenger.replyTokens[1] != "rt-1" {
		t.Errorf("expected two reply calls with the event token, got %v", messenger.replyTokens)
	}
	if len(journal.deliveries) != 1 {
		t.Fatalf("expected one journal row, got %d", len(journal.deliveries))
	}
	d := journal.deliveries[0]
	if d.EventKind != "text" || d.SourceID != "U1" || d.Replies != 2 || d.FailedSends != 1 || d.Payload != "flight TG123" {
		t.Errorf("unexpected delivery %+v", d)
	}
	if d.RequestID == "" {
		t.Errorf("expected request id on the delivery")
	}
}

func TestLineWebhook_EventKinds(t *testing.T) {
	w, bot, _, journal := newWebhook()
	body := `{"events":[
		{"type":"message","replyToken":"a","source":{"type":"user","userId":"U1"},
		 "message":{"id":"1","type":"location","latitude":13.75,"longitude":100.5}},
		{"type":"postback","replyToken":"b","source":{"type":"group","groupId":"G1"},
		 "postback":{"data":"weather=tokyo"}},
		{"type":"message","replyToken":"c","source":{"type":"user","userId":"U1"},
		 "message":{"id":"2","type":"sticker"}},
		{"type":"follow","replyToken":"d","source":{"type":"user","userId":"U1"}}
	]}`
	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, signedRequest(body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(bot.events) != 2 {
		t.Fatalf("expected 2 handled events, got %d", len(bot.events))
	}
	if ev := bot.events[0]; ev.Kind != skybot.KindLocation || ev.Lat != 13.75 || ev.Lng != 100.5 {
		t.Errorf("unexpected location event %+v", ev)
	}
	if ev := bot.events[1]; ev.Kind != skybot.KindCallback || ev.Data != "weather=tokyo" {
		t.Errorf("unexpected callback event %+v", ev)
	}
	if journal.deliveries[0].Payload != "13.75,100.5" || journal.deliveries[1].SourceID != "G1" {
		t.Errorf("unexpected deliveries %+v %+v", journal.deliveries[0], journal.deliveries[1])
	}
	if journal.deliveries[0].RequestID == journal.deliveries[1].RequestID {
		t.Errorf("expected distinct request ids per event")
	}
}

func TestLineWebhook_MalformedBodyStillOK(t *testing.T) {
	w, bot, _, _ := newWebhook()
	rec := httptest.NewRecorder()
	newRouter(w).ServeHTTP(rec, signedRequest(`{not json`))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if len(bot.events) != 0 {
		t.Errorf("expected no events")
	}
}

func TestPushAQI(t *testing.T) {
	w, _, messenger, _ := newWebhook()
	router := newRouter(w)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aqi?id=U1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected push response %d %s", rec.Code, rec.Body.String())
	}
	if len(messenger.pushedTo) != 1 || messenger.pushedTo[0] != "U1" {
		t.Errorf("expected push to U1, got %v", messenger.pushedTo)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aqi", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without recipient, got %d", rec.Code)
	}
}

func TestPushAQI_Failures(t *testing.T) {
	w, bot, messenger, _ := newWebhook()
	router := newRouter(w)

	bot.aqiErr = errors.New("station offline")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aqi?id=U1", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the card cannot be built, got %d", rec.Code)
	}

	bot.aqiErr = nil
	messenger.pushErr = errors.New("line down")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aqi?id=U1", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the push fails, got %d", rec.Code)
	}
}
