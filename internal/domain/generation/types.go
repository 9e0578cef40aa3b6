package generation

import (
	"context"
	"errors"
)

// Roles as the provider boundary understands them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUnavailable marks an upstream call that failed before any fragment was
// produced. Mid-stream failures surface as plain errors from Stream.Recv.
var ErrUnavailable = errors.New("generation unavailable")

// Turn is one ordered role/content pair of the conversation being answered.
// Attachment context, if any, is already inlined into Content by the caller.
type Turn struct {
	Role    string
	Content string
}

// Stream is a lazy, single-pass, non-restartable sequence of generated text
// fragments. Fragment boundaries carry no meaning.
type Stream interface {
	// Recv returns the next fragment, io.EOF when the sequence is exhausted,
	// or any other error when the upstream fails mid-stream.
	Recv() (string, error)
	Close() error
}

// Provider produces a generated reply for a conversation.
type Provider interface {
	GenerateStream(ctx context.Context, turns []Turn, groundingEnabled bool) (Stream, error)
}
