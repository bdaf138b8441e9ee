package mediastore_test

import (
	"testing"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "photo.jpg", want: ".jpg"},
		{name: "PHOTO.JPG", want: ".jpg"},
		{name: "archive.tar.gz", want: ".gz"},
		{name: "noext", want: ""},
		{name: ".hidden", want: ""},
		{name: ".hidden.png", want: ".png"},
		{name: "dir/file.pdf", want: ".pdf"},
		{name: "trailing.", want: "."},
		{name: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mediastore.Extension(tt.name))
		})
	}
}

func TestCategoryAndContentType(t *testing.T) {
	tests := []struct {
		name        string
		category    mediastore.Category
		contentType string
	}{
		{name: "a.jpeg", category: mediastore.CategoryImage, contentType: "image/jpeg"},
		{name: "a.WEBP", category: mediastore.CategoryImage, contentType: "image/webp"},
		{name: "a.docx", category: mediastore.CategoryDocument, contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "a.txt", category: mediastore.CategoryDocument, contentType: "text/plain"},
		{name: "a.mov", category: mediastore.CategoryVideo, contentType: "video/quicktime"},
		{name: "a.mp3", category: mediastore.CategoryAudio, contentType: "audio/mpeg"},
		{name: "a.exe", category: mediastore.CategoryOther, contentType: mediastore.DefaultContentType},
		{name: "README", category: mediastore.CategoryOther, contentType: mediastore.DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, mediastore.CategoryFor(tt.name))
			assert.Equal(t, tt.contentType, mediastore.ContentTypeFor(tt.name))
		})
	}
}

func TestAllowedExtensions(t *testing.T) {
	exts := mediastore.AllowedExtensions()

	assert.Equal(t, []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".webp"}, exts[mediastore.CategoryImage])
	assert.Len(t, exts[mediastore.CategoryDocument], 6)
	assert.Len(t, exts[mediastore.CategoryVideo], 6)
	assert.Len(t, exts[mediastore.CategoryAudio], 5)
	assert.NotContains(t, exts, mediastore.CategoryOther)

	for _, list := range exts {
		for _, ext := range list {
			assert.True(t, mediastore.IsAllowedExtension(ext), ext)
		}
	}
}
