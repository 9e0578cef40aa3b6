package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"swampy-server/internal/infrastructure/storage"
	"swampy-server/internal/interfaces/httpserver/responses"
	"swampy-server/internal/utils/platformerrors"
)

// share codes are produced by the deployment service, anything else is noise
var shareCodePattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

// DownloadHandler serves zip deployments as forced downloads.
type DownloadHandler struct {
	store *storage.PublicStore
	log   zerolog.Logger
}

// NewDownloadHandler constructs the download handler.
func NewDownloadHandler(store *storage.PublicStore, log zerolog.Logger) *DownloadHandler {
	return &DownloadHandler{
		store: store,
		log:   log.With().Str("handler", "download").Logger(),
	}
}

// Serve handles GET /download/zip/:code.
func (h *DownloadHandler) Serve(c *gin.Context) {
	code := c.Param("code")
	if !shareCodePattern.MatchString(code) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"invalid share code", "download-invalid-code")
		return
	}

	key := "file/zip/" + code + ".zip"
	if !h.store.Exists(key) {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound,
			"file not found", "download-not-found")
		return
	}

	c.FileAttachment(h.store.AbsPath(key), code+".zip")
}
