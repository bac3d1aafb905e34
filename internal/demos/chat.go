// ABOUTME: Chat demos: a slow echo that streams through an iterator and a random responder
// ABOUTME: The echo honors request cancellation between chunks

package demos

import (
	"context"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/2389/chailab/internal/bridge"
)

// EchoDelay is the pause between echoed characters.
var EchoDelay = 50 * time.Millisecond

// SlowEcho yields "You typed: " and then the message one character at a time.
func SlowEcho(ctx context.Context, message string, history []bridge.Message) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield("You typed: ") {
			return
		}
		for _, r := range message {
			select {
			case <-ctx.Done():
				return
			case <-time.After(EchoDelay):
			}
			if !yield(string(r)) {
				return
			}
		}
	}
}

// Responses are the canned answers of the random bot.
var Responses = []string{
	"Absolutely!",
	"Not today.",
	"Maybe… ask again later?",
	"100% yes.",
	"I'm not sure. What do you think?",
}

// RandomResponse ignores its input and picks one of Responses.
func RandomResponse(message string, history []bridge.Message) string {
	return Responses[rand.IntN(len(Responses))]
}

func init() {
	register(Demo{
		Name:        "echo",
		Kind:        KindChat,
		Title:       "Slow Echo Chat",
		Description: "Shows how iterator functions feed a response chunk by chunk.",
		fn:          SlowEcho,
		options: func() []bridge.Option {
			return []bridge.Option{
				bridge.WithPlaceholder("Type something slowly…"),
				bridge.WithSaveHistory(true),
			}
		},
	})

	register(Demo{
		Name:        "random",
		Kind:        KindChat,
		Title:       "Random Response Bot",
		Description: "Every message gets a random answer. Perfect for demos and quick sanity checks.",
		fn:          RandomResponse,
		options: func() []bridge.Option {
			return []bridge.Option{bridge.WithPlaceholder("Ask me anything…")}
		},
	})
}
