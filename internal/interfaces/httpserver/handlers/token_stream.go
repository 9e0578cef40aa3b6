package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"swampy-server/internal/infrastructure/metrics"
)

// tokenEvent is the wire shape of one streamed token line.
type tokenEvent struct {
	Token string `json:"token"`
}

// tokenStream writes newline-delimited JSON token events to the client. The
// response headers are committed lazily on the first token so failures before
// any output can still produce a regular JSON error.
type tokenStream struct {
	writer gin.ResponseWriter
	mode   string
	count  int
}

func newTokenStream(c *gin.Context, mode string) *tokenStream {
	return &tokenStream{writer: c.Writer, mode: mode}
}

// Token encodes one event, writes it and flushes so the client sees partial
// answers immediately.
func (s *tokenStream) Token(text string) error {
	if s.count == 0 {
		header := s.writer.Header()
		header.Set("Content-Type", "text/plain; charset=utf-8")
		header.Set("Cache-Control", "no-cache")
		header.Set("Transfer-Encoding", "chunked")
		s.writer.WriteHeader(http.StatusOK)
	}

	line, err := json.Marshal(tokenEvent{Token: text})
	if err != nil {
		return err
	}
	if _, err := s.writer.Write(append(line, '\n')); err != nil {
		return err
	}
	s.writer.Flush()

	s.count++
	metrics.RecordStreamToken(s.mode)
	return nil
}

// Started reports whether any bytes reached the client.
func (s *tokenStream) Started() bool {
	return s.count > 0
}
