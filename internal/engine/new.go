package engine

import (
	"github.com/nguyentantai21042004/chat-notes/internal/config"
	"github.com/nguyentantai21042004/chat-notes/internal/logger"
	"github.com/nguyentantai21042004/chat-notes/internal/manager"
)

type implEngine struct {
	cfg     *config.Config
	manager manager.Manager
	logger  logger.Logger
}

// New creates a new Engine instance
func New(cfg *config.Config, mgr manager.Manager, log logger.Logger) Engine {
	return &implEngine{
		cfg:     cfg,
		manager: mgr,
		logger:  log,
	}
}
