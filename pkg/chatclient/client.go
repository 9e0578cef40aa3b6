package chatclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Conversation mirrors the server's conversation payload.
type Conversation struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Message mirrors the server's message payload.
type Message struct {
	ID             uint   `json:"id"`
	ConversationID uint   `json:"conversationId"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
	CreatedAt      string `json:"createdAt"`
}

// ConversationWithMessages bundles a thread with its ordered history.
type ConversationWithMessages struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}

// ChatTurn is one history entry sent to the chat endpoint.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatFile is a file sent alongside a chat message.
type ChatFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ChatRequest starts one streamed chat turn.
type ChatRequest struct {
	Messages     []ChatTurn `json:"messages"`
	EnableSearch bool       `json:"enableSearch"`
	Files        []ChatFile `json:"files"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string
	// BearerToken is attached to every request when non-empty.
	BearerToken string
}

// Client talks to the chat server. It is safe for concurrent use.
type Client struct {
	rest *resty.Client
}

// New constructs a Client.
func New(cfg Config) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")
	if cfg.BearerToken != "" {
		rest.SetAuthToken(cfg.BearerToken)
	}
	return &Client{rest: rest}
}

// ListConversations returns the caller's threads, most recently active first.
func (c *Client) ListConversations(ctx context.Context, limit, offset int) ([]Conversation, error) {
	var out []Conversation
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetQueryParam("offset", fmt.Sprintf("%d", offset)).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/api/conversations")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, respError(resp)
	}
	return out, nil
}

// CreateConversation opens a new thread.
func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	var out Conversation
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"title": title}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/api/conversations")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, respError(resp)
	}
	return &out, nil
}

// GetConversation fetches a thread with its messages in timestamp order.
func (c *Client) GetConversation(ctx context.Context, id uint) (*ConversationWithMessages, error) {
	var out ConversationWithMessages
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiError{}).
		Get(fmt.Sprintf("/api/conversations/%d", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, respError(resp)
	}
	return &out, nil
}

// UpdateConversation renames a thread.
func (c *Client) UpdateConversation(ctx context.Context, id uint, title string) (*Conversation, error) {
	var out Conversation
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"title": title}).
		SetResult(&out).
		SetError(&apiError{}).
		Put(fmt.Sprintf("/api/conversations/%d", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, respError(resp)
	}
	return &out, nil
}

// DeleteConversation removes a thread and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id uint) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Delete(fmt.Sprintf("/api/conversations/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return respError(resp)
	}
	return nil
}

// AppendMessage persists one message to a thread.
func (c *Client) AppendMessage(ctx context.Context, conversationID uint, role, content string, timestamp int64) (*Message, error) {
	var out Message
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"role":      role,
			"content":   content,
			"timestamp": timestamp,
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Post(fmt.Sprintf("/api/conversations/%d/messages", conversationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, respError(resp)
	}
	return &out, nil
}

// DeleteMessage removes a single message.
func (c *Client) DeleteMessage(ctx context.Context, id uint) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Delete(fmt.Sprintf("/api/messages/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return respError(resp)
	}
	return nil
}

// StreamChat opens the token stream for one chat turn. The caller must close
// the returned reader.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest) (io.ReadCloser, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetDoNotParseResponse(true).
		Post("/api/chat")
	if err != nil {
		return nil, err
	}
	raw := resp.RawResponse
	if raw.StatusCode != http.StatusOK {
		defer raw.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(raw.Body, 4096))
		return nil, fmt.Errorf("chat request failed: status %d: %s", raw.StatusCode, string(body))
	}
	return raw.Body, nil
}

func respError(resp *resty.Response) error {
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error != "" {
		return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode())
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode())
}
