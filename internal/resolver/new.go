package resolver

import (
	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

type implResolver struct {
	exportDir  string
	transcript string
	limits     config.LimitsConfig
	logger     logger.Logger

	files  map[string]string // lower-cased filename -> absolute path
	byPath map[string]*model.ResolvedMedia
	byHash map[string]*model.ResolvedMedia
}

// New scans the export folder once, locates the transcript file and
// indexes the media files by lower-cased name. A folder without a
// transcript is a setup failure and aborts the run.
func New(exportDir string, limits config.LimitsConfig, log logger.Logger) (Resolver, error) {
	r := &implResolver{
		exportDir: exportDir,
		limits:    limits,
		logger:    log,
		files:     make(map[string]string),
		byPath:    make(map[string]*model.ResolvedMedia),
		byHash:    make(map[string]*model.ResolvedMedia),
	}

	if err := r.scan(); err != nil {
		return nil, err
	}

	return r, nil
}
