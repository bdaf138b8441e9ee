package mediastore

import (
	"sort"
	"strings"
)

// DefaultContentType is used for extensions outside the allow-list.
const DefaultContentType = "application/octet-stream"

type fileType struct {
	category    Category
	contentType string
}

// fileTypes is the single allow-list consulted by validation, category
// derivation and capability URL issuance.
var fileTypes = map[string]fileType{
	".jpg":  {CategoryImage, "image/jpeg"},
	".jpeg": {CategoryImage, "image/jpeg"},
	".png":  {CategoryImage, "image/png"},
	".gif":  {CategoryImage, "image/gif"},
	".bmp":  {CategoryImage, "image/bmp"},
	".webp": {CategoryImage, "image/webp"},

	".pdf":  {CategoryDocument, "application/pdf"},
	".doc":  {CategoryDocument, "application/msword"},
	".docx": {CategoryDocument, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {CategoryDocument, "text/plain"},
	".rtf":  {CategoryDocument, "application/rtf"},
	".odt":  {CategoryDocument, "application/vnd.oasis.opendocument.text"},

	".mp4":  {CategoryVideo, "video/mp4"},
	".avi":  {CategoryVideo, "video/x-msvideo"},
	".mov":  {CategoryVideo, "video/quicktime"},
	".wmv":  {CategoryVideo, "video/x-ms-wmv"},
	".flv":  {CategoryVideo, "video/x-flv"},
	".webm": {CategoryVideo, "video/webm"},

	".mp3":  {CategoryAudio, "audio/mpeg"},
	".wav":  {CategoryAudio, "audio/wav"},
	".flac": {CategoryAudio, "audio/flac"},
	".aac":  {CategoryAudio, "audio/aac"},
	".ogg":  {CategoryAudio, "audio/ogg"},
}

// Extension returns the lower-cased final extension of name including the
// leading dot, or "" when there is none. Leading dots of the base name do not
// start an extension, so ".jpg" has none.
func Extension(name string) string {
	base := name[strings.LastIndexAny(name, `/\`)+1:]
	base = strings.TrimLeft(base, ".")

	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// IsAllowedExtension reports whether ext (as returned by Extension) is in the allow-list.
func IsAllowedExtension(ext string) bool {
	_, ok := fileTypes[ext]
	return ok
}

// CategoryFor derives the category of a file from its name.
func CategoryFor(name string) Category {
	if ft, ok := fileTypes[Extension(name)]; ok {
		return ft.category
	}
	return CategoryOther
}

// ContentTypeFor infers the content type of a file from its name.
func ContentTypeFor(name string) string {
	if ft, ok := fileTypes[Extension(name)]; ok {
		return ft.contentType
	}
	return DefaultContentType
}

// AllowedExtensions returns the allow-list grouped by category, sorted.
func AllowedExtensions() map[Category][]string {
	out := make(map[Category][]string)
	for ext, ft := range fileTypes {
		out[ft.category] = append(out[ft.category], ext)
	}
	for _, exts := range out {
		sort.Strings(exts)
	}
	return out
}
