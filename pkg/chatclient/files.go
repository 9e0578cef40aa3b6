package chatclient

import (
	"fmt"
	"math"
	"strings"
)

// allowedFileTypes is what the composer accepts as an attachment.
var allowedFileTypes = []string{
	".txt", ".html", ".js", ".css", ".json", ".md", ".xml", ".csv",
	".zip", ".tar", ".gz", ".tar.gz", ".rar",
	".pdf", ".doc", ".docx",
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
	".mp3", ".mp4", ".wav", ".avi", ".mov",
	".ts", ".tsx", ".jsx", ".py", ".java", ".c", ".cpp", ".h", ".hpp",
	".sh", ".bat", ".yaml", ".yml", ".toml", ".ini", ".conf",
}

// MaxFileSize caps attachments at 50MB.
const MaxFileSize = 50 * 1024 * 1024

// inlineContentLimit bounds how much attachment text is folded into the
// message sent to the model.
const inlineContentLimit = 10000

// Attachment is a local file the user attached to a message. Content holds
// raw text for text files and a data URL for binary ones.
type Attachment struct {
	ID      string
	Name    string
	Type    string
	Size    int64
	Content string
}

// IsFileTypeAllowed reports whether the file name has an accepted extension.
func IsFileTypeAllowed(filename string) bool {
	lower := strings.ToLower(filename)
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return false
	}
	extension := lower[idx:]
	for _, t := range allowedFileTypes {
		if strings.HasSuffix(extension, t) {
			return true
		}
	}
	return false
}

// IsFileSizeAllowed reports whether the size is within the attachment cap.
func IsFileSizeAllowed(size int64) bool {
	return size <= MaxFileSize
}

// FormatFileSize renders a byte count for display, e.g. "1.5 MB".
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	value := math.Round(float64(bytes)/math.Pow(k, float64(i))*100) / 100
	return fmt.Sprintf("%v %s", value, sizes[i])
}

// fileContext folds attachments into text the model can read. Text content is
// inlined up to a limit; binary attachments are described instead.
func fileContext(files []Attachment) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasPrefix(f.Content, "data:") {
			parts = append(parts, fmt.Sprintf("[File: %s (%s, %d bytes) - binary content]", f.Name, f.Type, f.Size))
			continue
		}
		content := f.Content
		if len(content) > inlineContentLimit {
			content = content[:inlineContentLimit]
		}
		parts = append(parts, fmt.Sprintf("[File: %s]\n%s\n[End of %s]", f.Name, content, f.Name))
	}
	return strings.Join(parts, "\n\n")
}
