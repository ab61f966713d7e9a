package webhook

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/utils"
)

// Payload represents the structure of a Meta webhook payload
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents a single entry in the webhook payload
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change represents a change notification
type Change struct {
	Value Value  `json:"value"`
	Field string `json:"field"`
}

// Value contains the actual message data
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata contains phone number information
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact represents a WhatsApp contact
type Contact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

// Profile contains contact profile information
type Profile struct {
	Name string `json:"name"`
}

// Message represents an incoming WhatsApp message
type Message struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextMessage `json:"text,omitempty"`
}

// TextMessage represents a text message
type TextMessage struct {
	Body string `json:"body"`
}

// Status represents a message status update
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"` // sent, delivered, read, failed
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ParsedMessage is the inbound user message extracted from the envelope.
type ParsedMessage struct {
	WaID      string
	Name      string
	Type      string
	Text      string
	MessageID string
	Timestamp string
}

// ParsePayload extracts the inbound user message from a validated webhook
// body. Status callbacks, empty envelopes and malformed shapes yield
// (nil, false): acknowledged with no action, never an error.
func ParsePayload(body []byte) (*ParsedMessage, bool) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Zlog.Warn("Malformed webhook payload", zap.Error(err))
		return nil, false
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		utils.Zlog.Debug("Empty webhook payload")
		return nil, false
	}

	value := payload.Entry[0].Changes[0].Value

	if len(value.Messages) == 0 {
		if len(value.Statuses) > 0 {
			utils.Zlog.Debug("Status callback, no action",
				zap.String("status", value.Statuses[0].Status))
		} else {
			utils.Zlog.Debug("No messages in webhook payload")
		}
		return nil, false
	}

	message := value.Messages[0]
	if message.From == "" {
		utils.Zlog.Warn("Message without sender, ignoring")
		return nil, false
	}

	parsed := &ParsedMessage{
		WaID:      message.From,
		Type:      message.Type,
		MessageID: message.ID,
		Timestamp: message.Timestamp,
	}
	if message.Text != nil {
		parsed.Text = message.Text.Body
	}
	if len(value.Contacts) > 0 {
		parsed.Name = value.Contacts[0].Profile.Name
	}
	return parsed, true
}
