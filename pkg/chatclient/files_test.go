package chatclient

import (
	"strings"
	"testing"
)

func TestIsFileTypeAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"index.html", true},
		{"notes.TXT", true},
		{"archive.tar.gz", true},
		{"script.py", true},
		{"binary.exe", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := IsFileTypeAllowed(tt.filename); got != tt.want {
			t.Errorf("IsFileTypeAllowed(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestIsFileSizeAllowed(t *testing.T) {
	if !IsFileSizeAllowed(MaxFileSize) {
		t.Error("size at the cap should be allowed")
	}
	if IsFileSizeAllowed(MaxFileSize + 1) {
		t.Error("size above the cap should be rejected")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2 * 1024 * 1024, "2 MB"},
	}

	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFileContextTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", inlineContentLimit+500)
	got := fileContext([]Attachment{{Name: "big.txt", Content: long}})

	if !strings.HasPrefix(got, "[File: big.txt]\n") {
		t.Fatalf("unexpected prefix: %q", got[:40])
	}
	if strings.Contains(got, strings.Repeat("a", inlineContentLimit+1)) {
		t.Error("inlined content was not truncated")
	}
	if !strings.HasSuffix(got, "\n[End of big.txt]") {
		t.Error("missing end marker")
	}
}

func TestFileContextDescribesBinary(t *testing.T) {
	got := fileContext([]Attachment{{
		Name:    "photo.png",
		Type:    "image/png",
		Size:    2048,
		Content: "data:image/png;base64,AAAA",
	}})

	want := "[File: photo.png (image/png, 2048 bytes) - binary content]"
	if got != want {
		t.Errorf("fileContext() = %q, want %q", got, want)
	}
}
