package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// ErrMissing is returned when a referenced file is not in the export folder.
var ErrMissing = errors.New("media file not found in export folder")

// OversizeError reports a file that exceeds its kind's size ceiling.
// Oversize files are never sent to a provider.
type OversizeError struct {
	Filename string
	SizeMB   float64
	LimitMB  int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("%s: %.1fMB exceeds %dMB limit", e.Filename, e.SizeMB, e.LimitMB)
}

func (r *implResolver) Transcript() string {
	return r.transcript
}

func (r *implResolver) Resolve(ctx context.Context, ref *model.MediaReference) (*model.ResolvedMedia, error) {
	path, ok := r.files[strings.ToLower(ref.Filename)]
	if !ok {
		ref.Resolution = model.Missing
		r.logger.Warn(ctx, "Media file not found: %s", ref.Filename)
		return nil, ErrMissing
	}

	if media, ok := r.byPath[path]; ok {
		ref.Resolution = model.Resolved
		ref.Media = media
		return media, nil
	}

	media, err := r.analyze(path)
	if err != nil {
		ref.Resolution = model.Missing
		return nil, err
	}

	if err := r.checkSize(media); err != nil {
		// Resolved on disk but rejected; the item is skipped downstream.
		ref.Resolution = model.Resolved
		ref.Media = media
		return nil, err
	}

	// Dedup by content hash so identical attachments shared across
	// messages resolve to one ResolvedMedia and one cache entry.
	if existing, ok := r.byHash[media.ContentHash]; ok {
		media = existing
	} else {
		r.byHash[media.ContentHash] = media
	}
	r.byPath[path] = media

	ref.Resolution = model.Resolved
	ref.Media = media
	r.logger.Debug(ctx, "Resolved %s -> %s (%s, %.1fMB)", ref.Filename, media.Path, media.Kind, media.SizeMB())
	return media, nil
}

func (r *implResolver) analyze(path string) (*model.ResolvedMedia, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	hash, err := hashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	return &model.ResolvedMedia{
		Filename:    filepath.Base(path),
		Path:        path,
		SizeBytes:   info.Size(),
		Extension:   strings.ToLower(filepath.Ext(path)),
		Kind:        model.KindForFilename(path),
		ContentHash: hash,
	}, nil
}

func (r *implResolver) checkSize(media *model.ResolvedMedia) error {
	var limitMB int
	switch media.Kind {
	case model.KindImage:
		limitMB = r.limits.MaxImageSizeMB
	case model.KindVideo:
		limitMB = r.limits.MaxVideoSizeMB
	case model.KindAudio:
		limitMB = r.limits.MaxAudioSizeMB
	default:
		return fmt.Errorf("unsupported media type: %s", media.Extension)
	}

	if media.SizeBytes > int64(limitMB)*1024*1024 {
		return &OversizeError{
			Filename: media.Filename,
			SizeMB:   media.SizeMB(),
			LimitMB:  limitMB,
		}
	}
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
