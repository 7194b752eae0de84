package line

import (
	"encoding/json"

	"github.com/naseer2426/skybot/internal/card"
)

// LINE webhook entity structs

type WebhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string    `json:"type"`
	ReplyToken string    `json:"replyToken"`
	Timestamp  int64     `json:"timestamp"`
	Source     Source    `json:"source"`
	Message    *Message  `json:"message,omitempty"`
	Postback   *Postback `json:"postback,omitempty"`
}

type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// ID returns the most specific conversation id of the source.
func (s Source) ID() string {
	switch {
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	}
	return s.UserID
}

type Message struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Text      string  `json:"text,omitempty"`
	Title     string  `json:"title,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type Postback struct {
	Data string `json:"data"`
}

const (
	EventMessage  = "message"
	EventPostback = "postback"

	MessageText     = "text"
	MessageLocation = "location"
)

// OutboundMessage is anything that can be sent through the reply or push API.
type OutboundMessage interface {
	outbound()
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string       `json:"type"`
	Action *card.Action `json:"action"`
}

func QuickReplyButton(action *card.Action) QuickReplyItem {
	return QuickReplyItem{Type: "action", Action: action}
}

type TextMessage struct {
	Text       string      `json:"text"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

type FlexMessage struct {
	AltText  string         `json:"altText"`
	Contents card.Container `json:"contents"`
}

type ImageMessage struct {
	OriginalContentURL string `json:"originalContentUrl"`
	PreviewImageURL    string `json:"previewImageUrl"`
}

func (*TextMessage) outbound()  {}
func (*FlexMessage) outbound()  {}
func (*ImageMessage) outbound() {}

func (m *TextMessage) MarshalJSON() ([]byte, error) {
	type alias TextMessage
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"text", (*alias)(m)})
}

func (m *FlexMessage) MarshalJSON() ([]byte, error) {
	type alias FlexMessage
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"flex", (*alias)(m)})
}

func (m *ImageMessage) MarshalJSON() ([]byte, error) {
	type alias ImageMessage
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"image", (*alias)(m)})
}

type ReplyMessageRequest struct {
	ReplyToken string            `json:"replyToken"`
	Messages   []OutboundMessage `json:"messages"`
}

type PushMessageRequest struct {
	To       string            `json:"to"`
	Messages []OutboundMessage `json:"messages"`
}
