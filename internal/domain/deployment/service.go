package deployment

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"swampy-server/internal/utils/idgen"
	"swampy-server/internal/utils/platformerrors"
)

// Kind identifies the supported deployable file types.
type Kind string

const (
	KindHTML Kind = "html"
	KindTXT  Kind = "txt"
	KindZIP  Kind = "zip"
)

// zip share codes are short enough to read out loud.
const shareCodeLength = 8

// Result describes a completed deployment.
type Result struct {
	Kind Kind
	// FileName is the name the caller uploaded.
	FileName string
	// StoredName is the name the file is stored under; differs from FileName
	// for zips, which are renamed to their share code.
	StoredName string
	// PublicPath is the static path the file is served at, e.g.
	// /file/html/index.html.
	PublicPath string
	// DownloadPath is the forced-download path. Only set for zips.
	DownloadPath string
	// Code is the zip share code. Only set for zips.
	Code string
}

// Store is the persistence surface deployments are written through.
type Store interface {
	WriteFile(ctx context.Context, key string, data []byte) error
}

// Service deploys uploaded files to publicly reachable URLs.
type Service interface {
	// Deploy stores the file and returns where it is reachable. content is
	// the raw text for html/txt files and a base64 payload (optionally with a
	// data-URL prefix) for zips.
	Deploy(ctx context.Context, fileName, content string) (*Result, error)
	// KindFor resolves the deployable kind for a file name. ok is false when
	// the extension is not deployable.
	KindFor(fileName string) (Kind, bool)
}

type service struct {
	store Store
	log   zerolog.Logger
}

// NewService creates the deployment service.
func NewService(store Store, log zerolog.Logger) Service {
	return &service{
		store: store,
		log:   log.With().Str("component", "deployment-service").Logger(),
	}
}

func (s *service) KindFor(fileName string) (Kind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	switch Kind(ext) {
	case KindHTML, KindTXT, KindZIP:
		return Kind(ext), true
	default:
		return "", false
	}
}

func (s *service) Deploy(ctx context.Context, fileName, content string) (*Result, error) {
	if !validFileName(fileName) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid file name %q, path separators are not allowed", fileName),
			nil, "3d6f8a20-4c91-4e57-b8a4-1f2e7c5d9b36")
	}

	kind, ok := s.KindFor(fileName)
	if !ok {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnsupported,
			fmt.Sprintf("unsupported file type %q, only html, txt and zip can be deployed", ext),
			nil, "9f2c41d0-33a8-47b5-9f0e-5b1d2a6c8e01")
	}

	switch kind {
	case KindZIP:
		return s.deployZip(ctx, fileName, content)
	default:
		return s.deployText(ctx, kind, fileName, content)
	}
}

// deployText stores html and txt files verbatim under their original name.
func (s *service) deployText(ctx context.Context, kind Kind, fileName, content string) (*Result, error) {
	key := fmt.Sprintf("file/%s/%s", kind, fileName)
	if err := s.store.WriteFile(ctx, key, []byte(content)); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to deploy file",
			err, "5a7e9c12-84bf-4d6a-b2c3-0e1f6a9d4b72")
	}

	s.log.Info().Str("kind", string(kind)).Str("file", fileName).Msg("file deployed")
	return &Result{
		Kind:       kind,
		FileName:   fileName,
		StoredName: fileName,
		PublicPath: "/" + key,
	}, nil
}

// deployZip decodes the base64 payload, stores it under a fresh share code
// and exposes both a static path and a forced-download path.
func (s *service) deployZip(ctx context.Context, fileName, content string) (*Result, error) {
	data, err := decodeBase64Payload(content)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "invalid zip payload, expected base64 content",
			err, "c4d8b1e6-57f2-4a90-8d3b-2e6a0c9f5d18")
	}

	code, err := idgen.GenerateCode(shareCodeLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to generate share code",
			err, "e1f3a5c7-92d4-4b68-a0c2-7d9e4b1f6a83")
	}

	storedName := code + ".zip"
	key := "file/zip/" + storedName
	if err := s.store.WriteFile(ctx, key, data); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "failed to deploy file",
			err, "b6c0d2e4-18f5-4a37-9b8d-3c5e7a9f1d24")
	}

	s.log.Info().Str("kind", "zip").Str("file", fileName).Str("code", code).Msg("file deployed")
	return &Result{
		Kind:         KindZIP,
		FileName:     fileName,
		StoredName:   storedName,
		PublicPath:   "/" + key,
		DownloadPath: "/download/zip/" + code,
		Code:         code,
	}, nil
}

// validFileName rejects names that could steer the storage key outside the
// deployment directory. Uploaded names must be bare file names.
func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// decodeBase64Payload accepts either a bare base64 string or a data URL
// ("data:application/zip;base64,...") and returns the decoded bytes.
func decodeBase64Payload(content string) ([]byte, error) {
	payload := content
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
}
