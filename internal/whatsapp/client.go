package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/utils"
)

const defaultGraphAPIBaseURL = "https://graph.facebook.com"

// Client sends outbound messages through the Meta Graph API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	graphVersion  string
	phoneNumberID string
	accessToken   string
}

// MessageRequest is the Graph API request body for an outbound message.
type MessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *TextContent `json:"text,omitempty"`
}

// TextContent carries the body of a text message.
type TextContent struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// MessageResponse is the Graph API response for an accepted message.
type MessageResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NewClient creates a Graph API client. Meta expects a fast webhook ack, so
// the send itself is capped at 10 seconds.
func NewClient(graphVersion, phoneNumberID, accessToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:       defaultGraphAPIBaseURL,
		graphVersion:  graphVersion,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
	}
}

// WithBaseURL overrides the Graph API host, used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SendText posts a text message to the recipient and returns the message ID
// Meta assigned to it.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.graphVersion, c.phoneNumberID)

	reqBody := &MessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text: &TextContent{
			PreviewURL: false,
			Body:       body,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return "", fmt.Errorf("meta API error (status %d): %v", resp.StatusCode, errBody)
	}

	var msgResp MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(msgResp.Messages) == 0 {
		return "", fmt.Errorf("no message ID returned from Meta API")
	}

	utils.Zlog.Debug("Sent WhatsApp message",
		zap.String("to", to),
		zap.String("message_id", msgResp.Messages[0].ID))

	return msgResp.Messages[0].ID, nil
}
