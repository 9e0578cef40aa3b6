package chatclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// titleLimit is how much of the first user message becomes the thread title.
const titleLimit = 50

// ChatMessage is a message tracked locally by a Session before and after it
// is persisted.
type ChatMessage struct {
	LocalID   string
	Role      string
	Content   string
	Timestamp int64
}

// Session reassembles token streams into assistant messages and keeps the
// local transcript in sync with the server. It is not safe for concurrent
// Send calls; Save is single-flight.
type Session struct {
	client *Client

	mu             sync.Mutex
	conversationID uint
	messages       []ChatMessage
	saved          map[string]struct{}
	saving         atomic.Bool
	seq            atomic.Int64

	enableSearch bool
	onUpdate     func(assistantText string)
}

// NewSession starts an unsaved session.
func NewSession(client *Client) *Session {
	return &Session{
		client: client,
		saved:  map[string]struct{}{},
	}
}

// SetOnUpdate registers a callback invoked with the accumulated assistant
// text after every received token.
func (s *Session) SetOnUpdate(fn func(assistantText string)) {
	s.onUpdate = fn
}

// SetEnableSearch toggles web grounding for subsequent sends.
func (s *Session) SetEnableSearch(enabled bool) {
	s.enableSearch = enabled
}

// ConversationID returns the server-side thread ID, zero until first saved.
func (s *Session) ConversationID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Messages returns a copy of the local transcript.
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Load replaces the local transcript with a stored conversation. Loaded
// messages count as already saved.
func (s *Session) Load(ctx context.Context, conversationID uint) error {
	data, err := s.client.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.messages = s.messages[:0]
	s.saved = map[string]struct{}{}
	for _, msg := range data.Messages {
		localID := fmt.Sprintf("%d", msg.ID)
		s.messages = append(s.messages, ChatMessage{
			LocalID:   localID,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
		s.saved[localID] = struct{}{}
	}
	return nil
}

// Reset clears the session for a new thread.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = 0
	s.messages = s.messages[:0]
	s.saved = map[string]struct{}{}
}

// Send streams one chat turn and returns the reassembled assistant reply.
// Attachment text is folded into the request but the local transcript keeps
// the user's original wording. On success the transcript is persisted; on a
// cancelled stream the partial reply stays local and unsaved.
func (s *Session) Send(ctx context.Context, userMessage string, files []Attachment) (string, error) {
	userMsg := ChatMessage{
		LocalID:   s.nextLocalID(),
		Role:      "user",
		Content:   userMessage,
		Timestamp: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	turns := make([]ChatTurn, 0, len(s.messages))
	for _, msg := range s.messages {
		content := msg.Content
		if msg.LocalID == userMsg.LocalID && len(files) > 0 {
			content = userMessage + "\n\n" + fileContext(files)
		}
		turns = append(turns, ChatTurn{Role: msg.Role, Content: content})
	}
	s.mu.Unlock()

	req := ChatRequest{
		Messages:     turns,
		EnableSearch: s.enableSearch,
		Files:        make([]ChatFile, 0, len(files)),
	}
	for _, f := range files {
		req.Files = append(req.Files, ChatFile{Name: f.Name, Content: f.Content, Type: f.Type})
	}

	body, err := s.client.StreamChat(ctx, req)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var assistant strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(line, &event); err != nil {
			// Skip invalid JSON lines
			continue
		}
		assistant.WriteString(event.Token)
		if s.onUpdate != nil {
			s.onUpdate(assistant.String())
		}
	}

	assistantMsg := ChatMessage{
		LocalID:   s.nextLocalID(),
		Role:      "assistant",
		Content:   assistant.String(),
		Timestamp: time.Now().UnixMilli(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, assistantMsg)
	s.mu.Unlock()

	if err := scanner.Err(); err != nil {
		return assistant.String(), err
	}

	if err := s.Save(ctx); err != nil {
		return assistant.String(), err
	}
	return assistant.String(), nil
}

// Save persists unsaved messages, creating the conversation on first use.
// Concurrent calls collapse into one; the duplicate returns nil immediately.
func (s *Session) Save(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		return nil
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	if len(s.messages) == 0 {
		s.mu.Unlock()
		return nil
	}
	conversationID := s.conversationID
	pending := make([]ChatMessage, 0, len(s.messages))
	for _, msg := range s.messages {
		if _, ok := s.saved[msg.LocalID]; !ok {
			pending = append(pending, msg)
		}
	}
	firstThread := conversationID == 0
	var title string
	if firstThread {
		title = "New Chat"
		for _, msg := range s.messages {
			if msg.Role == "user" && msg.Content != "" {
				title = truncateRunes(msg.Content, titleLimit)
				break
			}
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 && !firstThread {
		return nil
	}

	if firstThread {
		conv, err := s.client.CreateConversation(ctx, title)
		if err != nil {
			return err
		}
		conversationID = conv.ID
		s.mu.Lock()
		s.conversationID = conversationID
		s.mu.Unlock()
	}

	for _, msg := range pending {
		// empty messages never round-trip, the server rejects them
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if _, err := s.client.AppendMessage(ctx, conversationID, msg.Role, msg.Content, msg.Timestamp); err != nil {
			return err
		}
		s.mu.Lock()
		s.saved[msg.LocalID] = struct{}{}
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) nextLocalID() string {
	return fmt.Sprintf("local-%d-%d", time.Now().UnixMilli(), s.seq.Add(1))
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
