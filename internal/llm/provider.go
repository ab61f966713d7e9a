package llm

import "context"

// Provider abstracts one AI backend behind a single generate capability.
// Exactly one implementation is active per process, selected at startup.
type Provider interface {
	// GenerateResponse produces a reply to message for the given WhatsApp
	// sender. waID identifies the sender, name is their profile name.
	GenerateResponse(ctx context.Context, waID, name, message string) (string, error)
}

// FallbackReply replaces the provider output whenever generation fails. The
// webhook must still acknowledge Meta with a 200, so adapter errors never
// reach the HTTP boundary.
const FallbackReply = "Sorry, I couldn't process that. Please try again later."
