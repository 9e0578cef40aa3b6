package chat

// Emitter receives the token stream produced for one chat turn. The HTTP
// layer implements it on top of the wire encoding; tests implement it with a
// slice.
type Emitter interface {
	// Token delivers one token payload to the client. Implementations flush
	// after every call so partial answers render immediately.
	Token(text string) error
}
