package webhook

import (
	"context"
	"strings"
	"testing"
)

func TestProcessAndRespondFormatsReply(t *testing.T) {
	sender := newStubSender()
	svc := NewService(testConfig(), &stubProvider{reply: "**Bold** answer【1†kb】"}, sender)

	msg := &ParsedMessage{WaID: "15551234567", Name: "Ada", Type: "text", Text: "hi"}
	if err := svc.ProcessAndRespond(context.Background(), msg); err != nil {
		t.Fatalf("ProcessAndRespond: %v", err)
	}

	sent := sender.wait(t)
	if sent.Body != "*Bold* answer" {
		t.Errorf("sent body = %q, want markdown rewritten for WhatsApp", sent.Body)
	}
}

func TestProcessAndRespondNonText(t *testing.T) {
	sender := newStubSender()
	svc := NewService(testConfig(), &stubProvider{reply: "should not be used"}, sender)

	msg := &ParsedMessage{WaID: "15551234567", Name: "Ada", Type: "audio"}
	if err := svc.ProcessAndRespond(context.Background(), msg); err != nil {
		t.Fatalf("ProcessAndRespond: %v", err)
	}

	sent := sender.wait(t)
	if !strings.Contains(sent.Body, "text") {
		t.Errorf("sent body = %q, want the text-only notice", sent.Body)
	}
	if sent.Body == "should not be used" {
		t.Error("provider must not be invoked for non-text messages")
	}
}
