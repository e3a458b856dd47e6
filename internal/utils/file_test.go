package utils

import (
	"strings"
	"testing"
	"time"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"photo.jpg", "photo_branded.jpg"},
		{"photo.PNG", "photo_branded.jpg"},
		{"mug.webp", "mug_branded.jpg"},
		{"archive.tar.gz", "archive.tar_branded.jpg"},
		{"noextension", "noextension_branded.jpg"},
		{"dir/nested/shirt.jpeg", "shirt_branded.jpg"},
	}

	for _, tt := range tests {
		if got := OutputName(tt.input); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestArchiveName(t *testing.T) {
	ts := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)
	got := ArchiveName(ts)
	want := "branded_20260829_143005.zip"
	if got != want {
		t.Errorf("ArchiveName = %q, want %q", got, want)
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"a.jpg", true},
		{"a.JPEG", true},
		{"a.png", true},
		{"a.webp", true},
		{"a.gif", false},
		{"a.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImageFile(tt.filename); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename(`pro:duct?*`)
	if strings.ContainsAny(got, `:?*`) {
		t.Errorf("SanitizeFilename left invalid characters: %q", got)
	}
}
