package genai

import (
	"context"
	"fmt"
	"io"
	"iter"

	googlegenai "google.golang.org/genai"

	"go.opentelemetry.io/otel/trace"

	"swampy-server/internal/config"
	"swampy-server/internal/domain/generation"
	"swampy-server/internal/infrastructure/observability"
)

// Client implements generation.Provider on top of the Gemini API.
type Client struct {
	client          *googlegenai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

// NewClient constructs the Gemini-backed generation client.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := googlegenai.NewClient(ctx, &googlegenai.ClientConfig{
		APIKey:  cfg.GoogleAPIKey,
		Backend: googlegenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:          client,
		model:           cfg.GenerationModel,
		temperature:     float32(cfg.Temperature),
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

// GenerateStream starts a streaming generation over the full turn list.
func (c *Client) GenerateStream(ctx context.Context, turns []generation.Turn, groundingEnabled bool) (generation.Stream, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: no turns to answer", generation.ErrUnavailable)
	}

	contents := make([]*googlegenai.Content, 0, len(turns))
	for _, turn := range turns {
		var role googlegenai.Role = googlegenai.RoleUser
		if turn.Role == generation.RoleAssistant {
			role = googlegenai.RoleModel
		}
		contents = append(contents, googlegenai.NewContentFromText(turn.Content, role))
	}

	genConfig := &googlegenai.GenerateContentConfig{
		Temperature:     googlegenai.Ptr(c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
	}
	if groundingEnabled {
		genConfig.Tools = []*googlegenai.Tool{
			{GoogleSearch: &googlegenai.GoogleSearch{}},
		}
	}

	ctx, span := observability.StartGenerationSpan(ctx, c.model, len(turns))
	next, stop := iter.Pull2(c.client.Models.GenerateContentStream(ctx, c.model, contents, genConfig))
	return &geminiStream{next: next, stop: stop, span: span}, nil
}

var _ generation.Provider = (*Client)(nil)

// geminiStream adapts the SDK's push iterator to the pull-style Stream
// contract. It is single-pass; Close releases the iterator and ends the
// generation span.
type geminiStream struct {
	next      func() (*googlegenai.GenerateContentResponse, error, bool)
	stop      func()
	span      trace.Span
	started   bool
	fragments int
}

func (s *geminiStream) Recv() (string, error) {
	for {
		resp, err, ok := s.next()
		if !ok {
			return "", io.EOF
		}
		if err != nil {
			if !s.started {
				err = fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
			}
			observability.RecordError(s.span, err)
			return "", err
		}
		s.started = true

		if text := fragmentText(resp); text != "" {
			s.fragments++
			return text, nil
		}
		// Metadata-only chunks carry no text; keep pulling.
	}
}

func (s *geminiStream) Close() error {
	observability.AddTokenEvent(s.span, s.fragments)
	s.span.End()
	s.stop()
	return nil
}

func fragmentText(resp *googlegenai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var text string
	for _, part := range content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}
