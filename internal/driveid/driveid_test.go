package driveid

import (
	"errors"
	"testing"
)

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "standard sharing URL",
			url:  "https://drive.google.com/file/d/1ABCdef23/view",
			want: "1ABCdef23",
		},
		{
			name: "sharing URL with query parameters",
			url:  "https://drive.google.com/file/d/1aB_c-D3fGh/view?usp=sharing",
			want: "1aB_c-D3fGh",
		},
		{
			name: "open URL form",
			url:  "https://drive.google.com/d/xYz-123_456",
			want: "xYz-123_456",
		},
		{
			name: "first match wins",
			url:  "https://drive.google.com/file/d/first123/d/second456",
			want: "first123",
		},
		{
			name:    "no identifier segment",
			url:     "https://drive.google.com/drive/folders/abc",
			wantErr: true,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "uc download URL has no /d/ segment",
			url:     "https://drive.google.com/uc?id=1ABCdef23&export=download",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFileID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractFileID(%q) expected error, got %q", tt.url, got)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractFileID(%q) unexpected error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractFileID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveFileID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"sharing URL", "https://drive.google.com/file/d/1ABCdef23/view", "1ABCdef23", false},
		{"bare identifier", "1ABCdef23", "1ABCdef23", false},
		{"identifier with underscore and dash", "a_b-c123", "a_b-c123", false},
		{"URL without identifier", "https://example.com/video", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFileID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveFileID(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFileID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveFileID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirectDownloadURL(t *testing.T) {
	got := DirectDownloadURL("1ABCdef23")
	want := "https://drive.google.com/uc?id=1ABCdef23&export=download"
	if got != want {
		t.Errorf("DirectDownloadURL() = %q, want %q", got, want)
	}
}
