package push

import "context"

// Message is a single push notification addressed to one device token.
type Message struct {
	Token string
	Title string
	Body  string
}

// Messenger delivers push messages to devices. Send returns an error for
// the individual message only; callers decide how failures aggregate.
type Messenger interface {
	Send(ctx context.Context, message Message) error
}
