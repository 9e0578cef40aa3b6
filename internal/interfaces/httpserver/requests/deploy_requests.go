package requests

// DeployRequest publishes an uploaded file. FileContent is raw text for
// html/txt and base64 for zips.
type DeployRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	FileContent string `json:"fileContent" binding:"required"`
	FileType    string `json:"fileType" binding:"required"`
}
