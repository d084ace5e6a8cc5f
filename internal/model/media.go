package model

// ResolvedMedia is a media file located on disk. Two references to
// byte-identical files share one ResolvedMedia, so ContentHash is the
// sole content identity used for caching and deduplication.
type ResolvedMedia struct {
	Filename    string
	Path        string
	SizeBytes   int64
	Extension   string
	Kind        MediaKind
	ContentHash string // hex SHA-256 of the file bytes
}

// SizeMB returns the file size in megabytes.
func (m *ResolvedMedia) SizeMB() float64 {
	return float64(m.SizeBytes) / (1024 * 1024)
}
