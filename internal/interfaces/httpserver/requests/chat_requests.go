package requests

// ChatMessage is one history turn in a chat request.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ChatFile is a file sent alongside the chat message. Content is raw text for
// html/txt files and base64 (optionally a data URL) for zips.
type ChatFile struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ChatRequest starts one streamed chat turn.
type ChatRequest struct {
	Messages     []ChatMessage `json:"messages" binding:"required"`
	EnableSearch bool          `json:"enableSearch"`
	Files        []ChatFile    `json:"files"`
}
