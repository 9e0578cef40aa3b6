package idgen

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "zip share code", length: 8, wantErr: false},
		{name: "short code", length: 4, wantErr: false},
		{name: "long code", length: 32, wantErr: false},
		{name: "zero length", length: 0, wantErr: true},
		{name: "negative length", length: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateCode(tt.length)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateCode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got) != tt.length {
				t.Errorf("GenerateCode() length = %d, want %d", len(got), tt.length)
			}
			for _, c := range got {
				if !strings.ContainsRune(alphabet, c) {
					t.Errorf("GenerateCode() produced character %q outside alphabet", c)
				}
			}
		})
	}
}

func TestGenerateCodeUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(8)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("GenerateCode() produced duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}
