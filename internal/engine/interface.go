package engine

import (
	"context"

	"github.com/nguyentantai21042004/chat-notes/internal/model"
)

// Result is the output of one full export run.
type Result struct {
	OutputPath string
	Messages   []model.Message
	Outcomes   []model.Outcome
	Stats      model.Stats
}

// Engine runs the full pipeline for one chat export folder: discover
// and parse the transcript, resolve media references, dispatch them
// through the provider chains and assemble the enhanced transcript.
type Engine interface {
	Process(ctx context.Context, exportDir string) (*Result, error)
}
