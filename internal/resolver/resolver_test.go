package resolver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

func defaultLimits() config.LimitsConfig {
	return config.LimitsConfig{MaxImageSizeMB: 20, MaxVideoSizeMB: 10, MaxAudioSizeMB: 25}
}

func writeExport(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestNewFindsTranscript(t *testing.T) {
	dir := writeExport(t, map[string][]byte{
		"WhatsApp Chat with Team.txt": []byte("25/12/2024, 10:31 - Alice: hi\n"),
		"IMG-0001.jpg":                []byte("jpeg-bytes"),
	})

	r, err := New(dir, defaultLimits(), logger.New("error"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "WhatsApp Chat with Team.txt"), r.Transcript())
}

func TestNewNoTranscript(t *testing.T) {
	dir := writeExport(t, map[string][]byte{"IMG-0001.jpg": []byte("jpeg-bytes")})

	_, err := New(dir, defaultLimits(), logger.New("error"))
	assert.Error(t, err)
}

func TestNewMissingFolder(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), defaultLimits(), logger.New("error"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	dir := writeExport(t, map[string][]byte{
		"chat.txt":     []byte("x"),
		"IMG-0001.jpg": []byte("jpeg-bytes"),
	})
	r, err := New(dir, defaultLimits(), logger.New("error"))
	require.NoError(t, err)

	ref := &model.MediaReference{Filename: "img-0001.JPG", Kind: model.KindImage, Resolution: model.Unresolved}
	media, err := r.Resolve(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, model.Resolved, ref.Resolution)
	assert.Equal(t, model.KindImage, media.Kind)
	assert.Equal(t, int64(len("jpeg-bytes")), media.SizeBytes)
	assert.Len(t, media.ContentHash, 64)
	assert.Same(t, media, ref.Media)
}

func TestResolveMissing(t *testing.T) {
	dir := writeExport(t, map[string][]byte{"chat.txt": []byte("x")})
	r, err := New(dir, defaultLimits(), logger.New("error"))
	require.NoError(t, err)

	ref := &model.MediaReference{Filename: "IMG-9999.jpg"}
	_, err = r.Resolve(context.Background(), ref)
	assert.ErrorIs(t, err, ErrMissing)
	assert.Equal(t, model.Missing, ref.Resolution)
}

func TestResolveOversize(t *testing.T) {
	big := bytes.Repeat([]byte("v"), 11*1024*1024)
	dir := writeExport(t, map[string][]byte{
		"chat.txt":     []byte("x"),
		"VID-0001.mp4": big,
	})
	r, err := New(dir, defaultLimits(), logger.New("error"))
	require.NoError(t, err)

	ref := &model.MediaReference{Filename: "VID-0001.mp4"}
	_, err = r.Resolve(context.Background(), ref)

	var oversize *OversizeError
	require.True(t, errors.As(err, &oversize))
	assert.Equal(t, 10, oversize.LimitMB)
}

func TestResolveDeduplicatesIdenticalBytes(t *testing.T) {
	dir := writeExport(t, map[string][]byte{
		"chat.txt":     []byte("x"),
		"IMG-0001.jpg": []byte("same-bytes"),
		"IMG-0002.jpg": []byte("same-bytes"),
	})
	r, err := New(dir, defaultLimits(), logger.New("error"))
	require.NoError(t, err)

	refA := &model.MediaReference{Filename: "IMG-0001.jpg"}
	refB := &model.MediaReference{Filename: "IMG-0002.jpg"}

	a, err := r.Resolve(context.Background(), refA)
	require.NoError(t, err)
	b, err := r.Resolve(context.Background(), refB)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, a.ContentHash, b.ContentHash)
}
