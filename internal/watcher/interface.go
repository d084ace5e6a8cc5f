package watcher

import "context"

// Watcher defines the interface for inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// ExportHandler is a function that processes one chat export folder
type ExportHandler func(ctx context.Context, exportDir string) error
