package responses

import "swampy-server/internal/domain/deployment"

// DeployPayload describes a completed file deployment.
type DeployPayload struct {
	Success    bool   `json:"success"`
	URL        string `json:"url"`
	FileURL    string `json:"fileUrl,omitempty"`
	FileName   string `json:"fileName"`
	RandomCode string `json:"randomCode,omitempty"`
}

// FromDeployment maps the deployment result to its DTO. URL is the forced
// download route for zips and the static route otherwise.
func FromDeployment(r *deployment.Result) DeployPayload {
	payload := DeployPayload{
		Success:  true,
		URL:      r.PublicPath,
		FileName: r.StoredName,
	}
	if r.Kind == deployment.KindZIP {
		payload.URL = r.DownloadPath
		payload.FileURL = r.PublicPath
		payload.RandomCode = r.Code
	}
	return payload
}
