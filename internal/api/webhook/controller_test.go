package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenchat/wa-bridge/internal/config"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) GenerateResponse(ctx context.Context, waID, name, message string) (string, error) {
	return s.reply, s.err
}

type sentMessage struct {
	To   string
	Body string
}

type stubSender struct {
	sent chan sentMessage
}

func newStubSender() *stubSender {
	return &stubSender{sent: make(chan sentMessage, 1)}
}

func (s *stubSender) SendText(ctx context.Context, to, body string) (string, error) {
	s.sent <- sentMessage{To: to, Body: body}
	return "wamid.sent1", nil
}

func (s *stubSender) wait(t *testing.T) sentMessage {
	t.Helper()
	select {
	case m := <-s.sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message to be sent")
		return sentMessage{}
	}
}

func (s *stubSender) assertNothingSent(t *testing.T) {
	t.Helper()
	select {
	case m := <-s.sent:
		t.Fatalf("unexpected message sent: %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func testConfig() *config.Config {
	return &config.Config{
		VerifyToken: "verify-me",
		AppSecret:   "app-secret",
	}
}

func newTestRouter(cfg *config.Config, provider *stubProvider, sender Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, cfg, provider, sender)
	return router
}

func TestVerifyWebhook(t *testing.T) {
	router := newTestRouter(testConfig(), &stubProvider{}, newStubSender())

	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", "verify-me")
	q.Set("hub.challenge", "1234")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "1234" {
		t.Errorf("body = %q, want the challenge echoed verbatim", w.Body.String())
	}
}

func TestVerifyWebhookRejects(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		token string
	}{
		{"wrong token", "subscribe", "wrong-token"},
		{"wrong mode", "unsubscribe", "verify-me"},
		{"no params", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(testConfig(), &stubProvider{}, newStubSender())

			q := url.Values{}
			q.Set("hub.mode", tc.mode)
			q.Set("hub.verify_token", tc.token)
			q.Set("hub.challenge", "1234")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+q.Encode(), nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", w.Code)
			}
		})
	}
}

func postWebhook(router *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	router.ServeHTTP(w, req)
	return w
}

func pingPayload() string {
	return strings.Replace(textMessagePayload, `"body": "hi"`, `"body": "ping"`, 1)
}

func TestWebhookEndToEnd(t *testing.T) {
	cfg := testConfig()
	sender := newStubSender()
	router := newTestRouter(cfg, &stubProvider{reply: "pong"}, sender)

	body := pingPayload()
	w := postWebhook(router, body, sign([]byte(body), cfg.AppSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	sent := sender.wait(t)
	if sent.To != "15551234567" {
		t.Errorf("sent to %q, want 15551234567", sent.To)
	}
	if sent.Body != "pong" {
		t.Errorf("sent body %q, want pong", sent.Body)
	}
}

func TestWebhookInvalidSignature(t *testing.T) {
	cfg := testConfig()
	sender := newStubSender()
	router := newTestRouter(cfg, &stubProvider{reply: "pong"}, sender)

	body := pingPayload()
	w := postWebhook(router, body, sign([]byte(body), "wrong-secret"))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	sender.assertNothingSent(t)
}

func TestWebhookMissingSignature(t *testing.T) {
	cfg := testConfig()
	sender := newStubSender()
	router := newTestRouter(cfg, &stubProvider{reply: "pong"}, sender)

	w := postWebhook(router, pingPayload(), "")

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	sender.assertNothingSent(t)
}

func TestWebhookStatusCallback(t *testing.T) {
	cfg := testConfig()
	sender := newStubSender()
	router := newTestRouter(cfg, &stubProvider{reply: "pong"}, sender)

	w := postWebhook(router, statusPayload, sign([]byte(statusPayload), cfg.AppSecret))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for benign status callback", w.Code)
	}
	sender.assertNothingSent(t)
}

func TestWebhookProviderFailureStillReplies(t *testing.T) {
	cfg := testConfig()
	sender := newStubSender()
	router := newTestRouter(cfg, &stubProvider{err: errors.New("rate limited")}, sender)

	body := pingPayload()
	w := postWebhook(router, body, sign([]byte(body), cfg.AppSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite provider failure", w.Code)
	}
	sent := sender.wait(t)
	if sent.Body == "" || sent.Body == "pong" {
		t.Errorf("sent body %q, want the fallback reply", sent.Body)
	}
}
