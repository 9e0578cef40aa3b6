package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/domain/generation"
	"swampy-server/internal/utils/platformerrors"
)

// Attachment is a file sent alongside a chat message. Content carries the
// raw text for html/txt files and a base64 payload for zips.
type Attachment struct {
	Name    string
	Content string
}

// Request is one chat turn to run through the pipeline.
type Request struct {
	// Turns is the conversation history, oldest first. The last turn is the
	// message being answered.
	Turns []generation.Turn
	// ForceSearch enables web grounding regardless of classification.
	ForceSearch bool
	// Attachment is the optional uploaded file. Deployment only triggers when
	// both an attachment and a deploy command are present.
	Attachment *Attachment
}

// Options carry the link bases and pacing delays the narration uses.
type Options struct {
	// SiteURL is where this server's own routes are reachable.
	SiteURL string
	// PublicFileBase prefixes the user-facing html/txt links.
	PublicFileBase string
	// ZipShareBase prefixes the user-facing zip share links.
	ZipShareBase string
	// SearchStatusDelay spaces the search status notices.
	SearchStatusDelay time.Duration
	// DeployNoticeDelay separates the "Deploying..." notice from the result.
	DeployNoticeDelay time.Duration
}

// Orchestrator routes a chat turn to deployment narration or streamed
// generation and writes every token through the Emitter.
type Orchestrator struct {
	provider generation.Provider
	deployer deployment.Service
	opts     Options
	log      zerolog.Logger
}

// NewOrchestrator creates the chat pipeline.
func NewOrchestrator(provider generation.Provider, deployer deployment.Service, opts Options, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		deployer: deployer,
		opts:     opts,
		log:      log.With().Str("component", "chat-orchestrator").Logger(),
	}
}

// Run classifies the latest message and streams the resulting tokens. A nil
// return means the stream completed; an error after tokens were emitted means
// the transport must be torn down rather than finished cleanly.
func (o *Orchestrator) Run(ctx context.Context, req Request, emit Emitter) error {
	var lastMessage string
	if len(req.Turns) > 0 {
		lastMessage = req.Turns[len(req.Turns)-1].Content
	}

	if req.Attachment != nil && IsDeployCommand(lastMessage) {
		return o.runDeploy(ctx, req.Attachment, emit)
	}

	grounding := req.ForceSearch || IsSearchCommand(lastMessage)
	if grounding {
		if err := o.emitSearchStatuses(ctx, lastMessage, emit); err != nil {
			return err
		}
	}

	stream, err := o.provider.GenerateStream(ctx, req.Turns, grounding)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := emit.Token(token); err != nil {
			return err
		}
	}
}

// emitSearchStatuses shows the user that a lookup is in flight before the
// first grounded token arrives.
func (o *Orchestrator) emitSearchStatuses(ctx context.Context, message string, emit Emitter) error {
	query := ExtractSearchQuery(message)
	statuses := []string{
		fmt.Sprintf("Mencari %s...", query),
		fmt.Sprintf("Searching for information about %s...", query),
		fmt.Sprintf("Looking up %s...", query),
	}
	for _, status := range statuses {
		if err := emit.Token(status + "\n\n"); err != nil {
			return err
		}
		if err := o.pause(ctx, o.opts.SearchStatusDelay); err != nil {
			return err
		}
	}
	return nil
}

// runDeploy narrates a file deployment as a token stream. Failures are
// reported to the user in-band, so the stream still ends cleanly.
func (o *Orchestrator) runDeploy(ctx context.Context, att *Attachment, emit Emitter) error {
	kind, ok := o.deployer.KindFor(att.Name)
	if !ok {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(att.Name), "."))
		return emit.Token(fmt.Sprintf("Sorry, I can only deploy HTML, TXT, and ZIP files. The file you uploaded is %s.", ext))
	}

	if err := emit.Token(fmt.Sprintf("Deploying %s...\n\n", att.Name)); err != nil {
		return err
	}
	if err := o.pause(ctx, o.opts.DeployNoticeDelay); err != nil {
		return err
	}

	result, err := o.deployer.Deploy(ctx, att.Name, att.Content)
	if err != nil {
		o.log.Error().Err(err).Str("file", att.Name).Msg("deployment failed")
		return emit.Token("Error deploying file: " + deployErrorMessage(err))
	}

	if err := emit.Token("File deployed successfully!\n\n"); err != nil {
		return err
	}

	var finalURL, hint, notePath string
	switch kind {
	case deployment.KindZIP:
		finalURL = o.opts.ZipShareBase + "/" + result.Code
		hint = "When someone visits this link, the ZIP file will be automatically downloaded.\n\n"
		notePath = result.DownloadPath
	case deployment.KindHTML:
		finalURL = o.opts.PublicFileBase + result.PublicPath
		hint = "You can access your HTML file at the link above.\n\n"
		notePath = result.PublicPath
	default:
		finalURL = o.opts.PublicFileBase + result.PublicPath
		hint = "You can access your text file at the link above.\n\n"
		notePath = result.PublicPath
	}

	if err := emit.Token(fmt.Sprintf("URL: %s\n\n", finalURL)); err != nil {
		return err
	}
	if err := emit.Token(hint); err != nil {
		return err
	}
	return emit.Token(fmt.Sprintf("Note: For demo purposes, the actual URL is %s%s", o.opts.SiteURL, notePath))
}

// deployErrorMessage keeps internal error chains out of the user-facing
// narration.
func deployErrorMessage(err error) string {
	var perr *platformerrors.PlatformError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

func (o *Orchestrator) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
