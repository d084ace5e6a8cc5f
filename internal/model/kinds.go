package model

import (
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".heic": true, ".heif": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true,
	".mkv": true, ".3gp": true, ".webm": true,
}

var audioExtensions = map[string]bool{
	".opus": true, ".mp3": true, ".wav": true, ".aac": true,
	".m4a": true, ".ogg": true, ".flac": true,
}

// KindForFilename classifies a filename by its extension.
func KindForFilename(filename string) MediaKind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	case audioExtensions[ext]:
		return KindAudio
	default:
		return KindUnknown
	}
}
