package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"swampy-server/internal/domain/deployment"
	"swampy-server/internal/infrastructure/metrics"
	"swampy-server/internal/infrastructure/observability"
	"swampy-server/internal/interfaces/httpserver/requests"
	"swampy-server/internal/interfaces/httpserver/responses"
	"swampy-server/internal/utils/platformerrors"
)

// DeployHandler publishes uploaded files to public URLs.
type DeployHandler struct {
	service deployment.Service
	log     zerolog.Logger
}

// NewDeployHandler constructs the deploy handler.
func NewDeployHandler(service deployment.Service, log zerolog.Logger) *DeployHandler {
	return &DeployHandler{
		service: service,
		log:     log.With().Str("handler", "deploy").Logger(),
	}
}

// Deploy handles POST /api/deploy.
func (h *DeployHandler) Deploy(c *gin.Context) {
	var req requests.DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"fileName, fileContent and fileType are required", "deploy-invalid-body")
		return
	}

	ctx, span := observability.StartDeploySpan(c.Request.Context(), req.FileName, req.FileType)
	defer span.End()

	result, err := h.service.Deploy(ctx, req.FileName, req.FileContent)
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordDeployment(req.FileType, "error")
		responses.HandleError(c, err, "failed to deploy file")
		return
	}

	metrics.RecordDeployment(string(result.Kind), "success")
	c.JSON(http.StatusOK, responses.FromDeployment(result))
}
