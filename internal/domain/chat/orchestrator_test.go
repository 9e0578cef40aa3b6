package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/domain/generation"
)

type recordingEmitter struct {
	tokens []string
	failAt int // fail on the nth Token call, 0 means never
}

func (e *recordingEmitter) Token(text string) error {
	if e.failAt > 0 && len(e.tokens)+1 == e.failAt {
		return errors.New("client gone")
	}
	e.tokens = append(e.tokens, text)
	return nil
}

type fakeStream struct {
	tokens []string
	err    error
	pos    int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos < len(s.tokens) {
		token := s.tokens[s.pos]
		s.pos++
		return token, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error { return nil }

type fakeProvider struct {
	stream    *fakeStream
	err       error
	gotTurns  []generation.Turn
	grounding bool
}

func (p *fakeProvider) GenerateStream(_ context.Context, turns []generation.Turn, grounding bool) (generation.Stream, error) {
	p.gotTurns = turns
	p.grounding = grounding
	if p.err != nil {
		return nil, p.err
	}
	return p.stream, nil
}

type fakeDeployer struct {
	result *deployment.Result
	err    error
	called bool
}

func (d *fakeDeployer) Deploy(_ context.Context, fileName, content string) (*deployment.Result, error) {
	d.called = true
	if d.err != nil {
		return nil, d.err
	}
	return d.result, nil
}

func (d *fakeDeployer) KindFor(fileName string) (deployment.Kind, bool) {
	return deployment.NewService(nil, zerolog.Nop()).KindFor(fileName)
}

func testOptions() Options {
	return Options{
		SiteURL:        "http://localhost:8080",
		PublicFileBase: "https://files.example.com",
		ZipShareBase:   "https://zip.example.com",
	}
}

func userTurn(content string) []generation.Turn {
	return []generation.Turn{{Role: generation.RoleUser, Content: content}}
}

func TestRunStreamsGeneratedTokens(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"Hello", ", world"}}}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	err := orch.Run(context.Background(), Request{Turns: userTurn("tell me a joke")}, emit)

	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", ", world"}, emit.tokens)
	assert.False(t, provider.grounding)
}

func TestRunSearchEmitsStatusesBeforeTokens(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"Go is a language."}}}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	err := orch.Run(context.Background(), Request{Turns: userTurn("what is golang")}, emit)

	require.NoError(t, err)
	require.Len(t, emit.tokens, 4)
	assert.Equal(t, "Mencari golang...\n\n", emit.tokens[0])
	assert.Equal(t, "Searching for information about golang...\n\n", emit.tokens[1])
	assert.Equal(t, "Looking up golang...\n\n", emit.tokens[2])
	assert.Equal(t, "Go is a language.", emit.tokens[3])
	assert.True(t, provider.grounding)
}

func TestRunForceSearchEnablesGrounding(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"ok"}}}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	err := orch.Run(context.Background(), Request{Turns: userTurn("hello there"), ForceSearch: true}, emit)

	require.NoError(t, err)
	assert.True(t, provider.grounding)
	// forced search still narrates the lookup, with the full message as query
	assert.Equal(t, "Mencari hello there...\n\n", emit.tokens[0])
}

func TestRunDeployNarratesSuccess(t *testing.T) {
	deployer := &fakeDeployer{result: &deployment.Result{
		Kind:       deployment.KindHTML,
		FileName:   "index.html",
		StoredName: "index.html",
		PublicPath: "/file/html/index.html",
	}}
	orch := NewOrchestrator(&fakeProvider{}, deployer, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	req := Request{
		Turns:      userTurn("deploy this please"),
		Attachment: &Attachment{Name: "index.html", Content: "<html></html>"},
	}
	err := orch.Run(context.Background(), req, emit)

	require.NoError(t, err)
	require.True(t, deployer.called)
	assert.Equal(t, []string{
		"Deploying index.html...\n\n",
		"File deployed successfully!\n\n",
		"URL: https://files.example.com/file/html/index.html\n\n",
		"You can access your HTML file at the link above.\n\n",
		"Note: For demo purposes, the actual URL is http://localhost:8080/file/html/index.html",
	}, emit.tokens)
}

func TestRunDeployZipUsesShareLink(t *testing.T) {
	deployer := &fakeDeployer{result: &deployment.Result{
		Kind:         deployment.KindZIP,
		FileName:     "site.zip",
		StoredName:   "a1b2c3d4.zip",
		PublicPath:   "/file/zip/a1b2c3d4.zip",
		DownloadPath: "/download/zip/a1b2c3d4",
		Code:         "a1b2c3d4",
	}}
	orch := NewOrchestrator(&fakeProvider{}, deployer, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	req := Request{
		Turns:      userTurn("deploy it"),
		Attachment: &Attachment{Name: "site.zip", Content: "UEsDBA=="},
	}
	err := orch.Run(context.Background(), req, emit)

	require.NoError(t, err)
	assert.Contains(t, emit.tokens, "URL: https://zip.example.com/a1b2c3d4\n\n")
	assert.Contains(t, emit.tokens, "When someone visits this link, the ZIP file will be automatically downloaded.\n\n")
	assert.Contains(t, emit.tokens, "Note: For demo purposes, the actual URL is http://localhost:8080/download/zip/a1b2c3d4")
}

func TestRunDeployUnsupportedTypeEndsCleanly(t *testing.T) {
	deployer := &fakeDeployer{}
	orch := NewOrchestrator(&fakeProvider{}, deployer, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	req := Request{
		Turns:      userTurn("deploy this"),
		Attachment: &Attachment{Name: "photo.png", Content: "..."},
	}
	err := orch.Run(context.Background(), req, emit)

	require.NoError(t, err)
	assert.False(t, deployer.called)
	assert.Equal(t, []string{"Sorry, I can only deploy HTML, TXT, and ZIP files. The file you uploaded is png."}, emit.tokens)
}

func TestRunDeployFailureReportedInBand(t *testing.T) {
	deployer := &fakeDeployer{err: errors.New("disk full")}
	orch := NewOrchestrator(&fakeProvider{}, deployer, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	req := Request{
		Turns:      userTurn("deploy this"),
		Attachment: &Attachment{Name: "notes.txt", Content: "hello"},
	}
	err := orch.Run(context.Background(), req, emit)

	require.NoError(t, err)
	require.Len(t, emit.tokens, 2)
	assert.Equal(t, "Error deploying file: disk full", emit.tokens[1])
}

func TestRunAttachmentWithoutDeployCommandGenerates(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"Summary."}}}
	deployer := &fakeDeployer{}
	orch := NewOrchestrator(provider, deployer, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	req := Request{
		Turns:      userTurn("summarize this file"),
		Attachment: &Attachment{Name: "notes.txt", Content: "hello"},
	}
	err := orch.Run(context.Background(), req, emit)

	require.NoError(t, err)
	assert.False(t, deployer.called)
	assert.Equal(t, []string{"Summary."}, emit.tokens)
}

func TestRunProviderErrorBeforeTokensPropagates(t *testing.T) {
	provider := &fakeProvider{err: generation.ErrUnavailable}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	err := orch.Run(context.Background(), Request{Turns: userTurn("hello")}, emit)

	require.ErrorIs(t, err, generation.ErrUnavailable)
	assert.Empty(t, emit.tokens)
}

func TestRunMidStreamErrorPropagates(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"partial"}, err: errors.New("upstream reset")}}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{}

	err := orch.Run(context.Background(), Request{Turns: userTurn("hello")}, emit)

	require.Error(t, err)
	assert.Equal(t, []string{"partial"}, emit.tokens)
}

func TestRunEmitterFailureStopsStream(t *testing.T) {
	provider := &fakeProvider{stream: &fakeStream{tokens: []string{"a", "b", "c"}}}
	orch := NewOrchestrator(provider, &fakeDeployer{}, testOptions(), zerolog.Nop())
	emit := &recordingEmitter{failAt: 2}

	err := orch.Run(context.Background(), Request{Turns: userTurn("hello")}, emit)

	require.Error(t, err)
	assert.Equal(t, []string{"a"}, emit.tokens)
}
